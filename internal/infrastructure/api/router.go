package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/podium-gg/podium/internal/infrastructure/logging"
	"github.com/podium-gg/podium/internal/infrastructure/metrics"
	"github.com/podium-gg/podium/internal/leaderboard"
)

// RouterConfig holds dependencies for route registration.
type RouterConfig struct {
	LeaderboardParams leaderboard.Params
	Readiness         ReadinessChecker
	Logger            *logging.Logger
	Metrics           *metrics.Metrics
}

// RegisterRoutes sets up all API routes on the server.
func RegisterRoutes(e *echo.Echo, config RouterConfig) {
	// prometheus metrics endpoint (standard scraping path)
	if config.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
			config.Metrics.Registry,
			promhttp.HandlerOpts{
				Registry:          config.Metrics.Registry,
				EnableOpenMetrics: true,
			},
		)))

		// apply metrics middleware to all routes
		e.Use(metrics.Middleware(config.Metrics))
	}

	// health endpoints
	RegisterHealthRoutes(e, config.Readiness)

	// api v1 group
	v1 := e.Group("/api/v1")

	handler := NewLeaderboardHandler(config.LeaderboardParams, config.Logger, config.Metrics)
	handler.RegisterRoutes(v1)

	metricsEnabled := config.Metrics != nil
	config.Logger.Info("api routes registered",
		"version", "v1",
		"health_endpoints", []string{"/health", "/ready"},
		"metrics_enabled", metricsEnabled,
		"api_prefix", "/api/v1",
	)
}
