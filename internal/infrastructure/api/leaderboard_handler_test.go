package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/podium-gg/podium/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"invalid user", fmt.Errorf("upserting: %w", domain.ErrInvalidUser), http.StatusNotFound},
		{"unsupported backend", domain.ErrUnsupportedBackend, http.StatusBadRequest},
		{
			"dial failure",
			fmt.Errorf("dialing relational store: %w: %w", domain.ErrConnection, errors.New("connection refused")),
			http.StatusBadGateway,
		},
		{
			// exec failures mid-request carry the same classification
			// as dial failures and must map to a retryable status
			"query failure",
			fmt.Errorf("saving score: %w: %w", domain.ErrConnection, errors.New("broken pipe")),
			http.StatusBadGateway,
		},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapDomainError(tt.err)

			var he *echo.HTTPError
			if !errors.As(mapped, &he) {
				t.Fatalf("expected *echo.HTTPError, got %T", mapped)
			}
			if he.Code != tt.status {
				t.Errorf("status = %d, want %d", he.Code, tt.status)
			}
		})
	}
}
