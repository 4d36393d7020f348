package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedRecord is one synthetic player with a pre-encoded score.
type SeedRecord struct {
	UserID   string
	Username string
	Score    float64
}

// SeedStore bulk-loads players and scores through the shared pool.
// Only the loader uses it; request traffic never touches this path.
type SeedStore struct {
	pool *pgxpool.Pool
}

// NewSeedStore creates a SeedStore.
func NewSeedStore(pool *pgxpool.Pool) *SeedStore {
	return &SeedStore{pool: pool}
}

// InsertBatch writes one batch of users and their scores in a single
// transaction. Users go first so the leaderboard foreign key holds.
func (s *SeedStore) InsertBatch(ctx context.Context, records []SeedRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	userRows := make([][]any, len(records))
	scoreRows := make([][]any, len(records))
	for i, rec := range records {
		userRows[i] = []any{rec.UserID, rec.Username}
		scoreRows[i] = []any{rec.UserID, rec.Score}
	}

	if _, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"podium", "users"},
		[]string{"id", "username"},
		pgx.CopyFromRows(userRows),
	); err != nil {
		return fmt.Errorf("batch inserting users: %w", err)
	}

	if _, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"podium", "leaderboard"},
		[]string{"user_id", "score"},
		pgx.CopyFromRows(scoreRows),
	); err != nil {
		return fmt.Errorf("batch inserting scores: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
