package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/podium-gg/podium/internal/infrastructure/api"
	"github.com/podium-gg/podium/internal/infrastructure/cache"
	"github.com/podium-gg/podium/internal/infrastructure/config"
	"github.com/podium-gg/podium/internal/infrastructure/database"
	"github.com/podium-gg/podium/internal/infrastructure/logging"
	"github.com/podium-gg/podium/internal/infrastructure/metrics"
	"github.com/podium-gg/podium/internal/infrastructure/postgres"
	"github.com/podium-gg/podium/internal/leaderboard"
)

func main() {
	logger := logging.New()
	logger.Info("podium starting up")

	if err := run(logger); err != nil {
		logger.Error("application failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(logger *logging.Logger) error {
	// load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err.Error())
		return err
	}

	// establish the process-wide database pool used for migrations and
	// readiness checks; request handlers dial their own connections
	conn, err := database.New(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	// run migrations
	migrator := database.NewMigrator(conn, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := migrator.Run(ctx); err != nil {
		return err
	}

	// verify health after migrations
	if err := conn.HealthCheck(ctx); err != nil {
		return err
	}

	logger.Info("podium infrastructure ready", "schema", conn.Schema())

	// initialize prometheus metrics
	appMetrics := metrics.New()
	logger.Info("prometheus metrics initialized")

	// per-request connection parameters for the leaderboard handlers
	params := leaderboard.Params{
		Credentials:    leaderboard.StaticCredentials(cfg.Database),
		RedisAddr:      cfg.Redis.Addr,
		OpenRelational: postgres.Open,
		OpenRanking:    cache.Open,
	}

	// initialize http server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		serverConfig.Port = ":" + port
	}

	server := api.NewServer(serverConfig, logger)

	// register routes
	api.RegisterRoutes(server.Echo(), api.RouterConfig{
		LeaderboardParams: params,
		Readiness:         conn,
		Logger:            logger,
		Metrics:           appMetrics,
	})

	// start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("http server error", "error", err.Error())
		}
	}()

	// wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("podium shutting down")

	// graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err.Error())
		return err
	}

	logger.Info("podium shutdown complete")
	return nil
}
