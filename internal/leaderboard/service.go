// Package leaderboard implements the ranking core: a dual-backend
// leaderboard that serves top-N, per-player rank, username prefix
// search, and score upserts either straight from postgres or from a
// redis sorted set backed by postgres as the system of record.
package leaderboard

import (
	"context"
	"fmt"

	"github.com/podium-gg/podium/internal/domain"
	"github.com/podium-gg/podium/internal/infrastructure/logging"
)

// searchLimit caps username prefix search results.
const searchLimit = 20

// topSize is the number of entries a leaderboard page carries.
const topSize = 10

// Service exposes the four public ranking operations. Implementations
// are bound to one request's connections and are not reused.
type Service interface {
	// RetrieveTop10 returns the highest-ranked players, ranks 1..10.
	RetrieveTop10(ctx context.Context) ([]domain.LeaderboardEntry, error)

	// PlayerInfo returns a single player's entry. Fails with
	// domain.ErrNotFound when the player is not registered.
	PlayerInfo(ctx context.Context, userID string) (domain.LeaderboardEntry, error)

	// SearchUser returns up to 20 players whose username starts with
	// the given prefix.
	SearchUser(ctx context.Context, prefix string) ([]domain.User, error)

	// UpsertScore records a new score for a registered player and
	// returns the resulting 1-based rank. Fails with
	// domain.ErrInvalidUser when the player is not registered.
	UpsertScore(ctx context.Context, userID string, score float64) (int, error)
}

// Backend selects a ranking store variant.
type Backend string

const (
	// BackendRelational serves every query from postgres.
	BackendRelational Backend = "relational"

	// BackendCached serves ranking from the redis sorted set with
	// postgres as the write-through system of record.
	BackendCached Backend = "cached"
)

// ParseBackend maps a caller-supplied discriminator to a Backend.
// The empty string defaults to the cached variant.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "", string(BackendCached):
		return BackendCached, nil
	case string(BackendRelational):
		return BackendRelational, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, s)
	}
}

// New constructs the ranking store variant for the given backend, bound
// to the supplied per-request connections. Performs no I/O itself.
func New(backend Backend, conns Connections, logger *logging.Logger) (Service, error) {
	switch backend {
	case BackendRelational:
		return newRelationalStore(conns, logger), nil
	case BackendCached:
		return newCachedStore(conns, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedBackend, backend)
	}
}
