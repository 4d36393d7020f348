// Command podium-seed bulk-loads synthetic players into postgres and
// the redis ranking set so benchmarks and demos start populated.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/podium-gg/podium/internal/infrastructure/cache"
	"github.com/podium-gg/podium/internal/infrastructure/config"
	"github.com/podium-gg/podium/internal/infrastructure/database"
	"github.com/podium-gg/podium/internal/infrastructure/logging"
	"github.com/podium-gg/podium/internal/infrastructure/metrics"
	"github.com/podium-gg/podium/internal/infrastructure/postgres"
	"github.com/podium-gg/podium/internal/infrastructure/seed"
)

func main() {
	logger := logging.New()

	if err := run(logger); err != nil {
		logger.Error("seeding failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(logger *logging.Logger) error {
	seedConfig := seed.DefaultConfig()
	flag.IntVar(&seedConfig.Records, "records", seedConfig.Records, "total number of players to generate")
	flag.IntVar(&seedConfig.BatchSize, "batch", seedConfig.BatchSize, "players per transaction")
	flag.IntVar(&seedConfig.MaxScore, "max-score", seedConfig.MaxScore, "upper bound for generated raw scores")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	conn, err := database.New(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := context.Background()

	migrator := database.NewMigrator(conn, logger)
	migrateCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if err := migrator.Run(migrateCtx); err != nil {
		return err
	}

	redisClient := cache.NewRedisClient(redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	}))
	defer redisClient.Close()

	seeder := seed.New(postgres.NewSeedStore(conn.Pool()), redisClient, seedConfig, logger).
		WithMetrics(metrics.New())

	start := time.Now()
	written, err := seeder.Run(ctx)
	if err != nil {
		return err
	}

	ranked, err := redisClient.Size(ctx)
	if err != nil {
		return err
	}

	logger.Info("seed run finished",
		"records", written,
		"ranked_members", ranked,
		"duration", time.Since(start).String(),
	)
	return nil
}
