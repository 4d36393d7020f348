// Package seed bulk-loads synthetic players and scores into both
// backends so a fresh environment has a populated leaderboard to query.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/podium-gg/podium/internal/domain"
	"github.com/podium-gg/podium/internal/infrastructure/cache"
	"github.com/podium-gg/podium/internal/infrastructure/logging"
	"github.com/podium-gg/podium/internal/infrastructure/metrics"
	"github.com/podium-gg/podium/internal/infrastructure/postgres"
	"github.com/podium-gg/podium/internal/leaderboard"
)

// Config controls how much synthetic data the seeder produces.
type Config struct {
	// Records is the total number of players to create.
	Records int

	// BatchSize is how many players go into one transaction.
	BatchSize int

	// MaxScore caps generated raw scores.
	MaxScore int

	// ScoreWindow is how far into the past submission instants are
	// spread, so generated tie-breaks vary.
	ScoreWindow time.Duration
}

// DefaultConfig mirrors the scale the leaderboard is benchmarked at.
func DefaultConfig() Config {
	return Config{
		Records:     2_000_000,
		BatchSize:   25_000,
		MaxScore:    1_000_000,
		ScoreWindow: 24 * time.Hour,
	}
}

// Validate rejects configurations the batch loop cannot make progress
// on.
func (c Config) Validate() error {
	if c.Records < 0 {
		return fmt.Errorf("records must be non-negative, got %d", c.Records)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.MaxScore < 0 {
		return fmt.Errorf("max score must be non-negative, got %d", c.MaxScore)
	}
	if c.ScoreWindow <= 0 {
		return fmt.Errorf("score window must be positive, got %s", c.ScoreWindow)
	}
	return nil
}

// Seeder writes generated batches to postgres and redis.
type Seeder struct {
	store   *postgres.SeedStore
	redis   *cache.RedisClient
	config  Config
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// New creates a Seeder.
func New(store *postgres.SeedStore, redis *cache.RedisClient, config Config, logger *logging.Logger) *Seeder {
	return &Seeder{
		store:  store,
		redis:  redis,
		config: config,
		logger: logger.WithComponent("seeder"),
	}
}

// WithMetrics enables batch duration recording.
func (s *Seeder) WithMetrics(m *metrics.Metrics) *Seeder {
	s.metrics = m
	return s
}

// Run generates and loads all configured records, returning the count
// actually written. Stops at the first failed batch.
func (s *Seeder) Run(ctx context.Context) (int, error) {
	if err := s.config.Validate(); err != nil {
		return 0, fmt.Errorf("invalid seed config: %w", err)
	}

	s.logger.Info("seeding started",
		"records", s.config.Records,
		"batch_size", s.config.BatchSize,
	)

	written := 0
	for written < s.config.Records {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		size := s.config.BatchSize
		if remaining := s.config.Records - written; remaining < size {
			size = remaining
		}

		start := time.Now()
		records := generateBatch(size, s.config.MaxScore, s.config.ScoreWindow)

		if err := s.store.InsertBatch(ctx, records); err != nil {
			return written, fmt.Errorf("inserting batch: %w", err)
		}

		members := make([]leaderboard.MemberScore, len(records))
		for i, rec := range records {
			members[i] = leaderboard.MemberScore{UserID: rec.UserID, Score: rec.Score}
		}
		if err := s.redis.SeedScores(ctx, members); err != nil {
			return written, fmt.Errorf("seeding ranking set: %w", err)
		}

		written += size
		duration := time.Since(start)
		if s.metrics != nil {
			s.metrics.RecordSeedBatch(duration.Seconds())
		}

		s.logger.Info("batch loaded",
			"written", written,
			"total", s.config.Records,
			"duration_ms", duration.Milliseconds(),
		)
	}

	s.logger.Info("seeding completed", "records", written)
	return written, nil
}

// generateBatch produces one batch of synthetic players with encoded
// scores spread across the configured submission window.
func generateBatch(size, maxScore int, window time.Duration) []postgres.SeedRecord {
	now := time.Now().UTC()
	records := make([]postgres.SeedRecord, size)

	for i := range records {
		submittedAt := now.Add(-time.Duration(gofakeit.IntRange(0, int(window.Seconds()))) * time.Second)

		records[i] = postgres.SeedRecord{
			UserID:   uuid.NewString(),
			Username: syntheticUsername(),
			Score:    domain.EncodeScore(float64(gofakeit.IntRange(0, maxScore)), submittedAt),
		}
	}

	return records
}

// syntheticUsername builds a username in the same shape real
// registrations produce: a random tag plus a person name.
func syntheticUsername() string {
	name := fmt.Sprintf("%s.%s.%s",
		gofakeit.LetterN(12),
		gofakeit.FirstName(),
		gofakeit.LastName(),
	)
	return strings.ToLower(name)
}
