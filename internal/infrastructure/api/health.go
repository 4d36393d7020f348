package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ReadinessChecker verifies a backing dependency is reachable.
type ReadinessChecker interface {
	HealthCheck(ctx context.Context) error
}

// RegisterHealthRoutes registers health check endpoints.
func RegisterHealthRoutes(e *echo.Echo, db ReadinessChecker) {
	e.GET("/health", healthHandler)
	e.GET("/ready", readyHandler(db))
}

// healthHandler returns the basic health status.
// used for liveness probes.
func healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "podium",
	})
}

// readyHandler returns the readiness status.
// used for readiness probes; checks the relational store is reachable.
func readyHandler(db ReadinessChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db != nil {
			if err := db.HealthCheck(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, HealthResponse{
					Status:  "unavailable",
					Service: "podium",
				})
			}
		}
		return c.JSON(http.StatusOK, HealthResponse{
			Status:  "ready",
			Service: "podium",
		})
	}
}
