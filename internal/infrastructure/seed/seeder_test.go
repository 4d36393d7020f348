package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/podium-gg/podium/internal/domain"
	"github.com/podium-gg/podium/internal/infrastructure/logging"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, true},
		{"negative batch size", func(c *Config) { c.BatchSize = -1 }, true},
		{"negative records", func(c *Config) { c.Records = -1 }, true},
		{"negative max score", func(c *Config) { c.MaxScore = -1 }, true},
		{"zero score window", func(c *Config) { c.ScoreWindow = 0 }, true},
		{"zero records", func(c *Config) { c.Records = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestRunRejectsZeroBatchSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Records = 10
	cfg.BatchSize = 0

	// stores stay nil: the config must be rejected before any batch
	// is generated or written
	seeder := New(nil, nil, cfg, logging.New())

	written, err := seeder.Run(context.Background())
	if err == nil {
		t.Fatal("expected Run to reject a zero batch size")
	}
	if written != 0 {
		t.Errorf("written = %d, want 0", written)
	}
}

func TestGenerateBatchSize(t *testing.T) {
	records := generateBatch(50, 1000, time.Hour)
	if len(records) != 50 {
		t.Fatalf("expected 50 records, got %d", len(records))
	}
}

func TestGenerateBatchUniqueIDs(t *testing.T) {
	records := generateBatch(200, 1000, time.Hour)

	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if seen[rec.UserID] {
			t.Fatalf("duplicate user id %s", rec.UserID)
		}
		seen[rec.UserID] = true
	}
}

func TestGenerateBatchUsernames(t *testing.T) {
	for _, rec := range generateBatch(20, 1000, time.Hour) {
		if rec.Username != strings.ToLower(rec.Username) {
			t.Errorf("username %q is not lowercase", rec.Username)
		}
		if strings.Count(rec.Username, ".") != 2 {
			t.Errorf("username %q does not have tag.first.last shape", rec.Username)
		}
	}
}

func TestGenerateBatchScoreRange(t *testing.T) {
	const maxScore = 500

	for _, rec := range generateBatch(100, maxScore, time.Hour) {
		display := domain.DisplayScore(rec.Score)
		if display < 0 || display > maxScore {
			t.Errorf("display score %v outside [0, %d]", display, maxScore)
		}
		if rec.Score == display {
			t.Errorf("score %v carries no tie-break fraction", rec.Score)
		}
	}
}
