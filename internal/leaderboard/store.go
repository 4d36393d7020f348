package leaderboard

import (
	"context"

	"github.com/podium-gg/podium/internal/domain"
)

// ScoreRow is a joined user/score row from the relational store.
// Score carries the encoded sortable key, not the display score.
type ScoreRow struct {
	UserID   string
	Username string
	Score    float64
}

// PlayerRow is a single player's relational rank computation.
type PlayerRow struct {
	Username string
	Score    float64
	Rank     int
}

// MemberScore is one member of the ordered ranking set.
type MemberScore struct {
	UserID string
	Score  float64
}

// RelationalClient is the relational store surface the ranking core
// needs. Implemented by the postgres infrastructure package over a
// single per-request connection.
type RelationalClient interface {
	// UserExists reports whether a user row exists.
	UserExists(ctx context.Context, userID string) (bool, error)

	// FindUsernames resolves usernames for the given ids. Ids without
	// a row are omitted from the result.
	FindUsernames(ctx context.Context, userIDs []string) (map[string]string, error)

	// SearchUsers returns users whose username starts with prefix,
	// in deterministic order, up to limit.
	SearchUsers(ctx context.Context, prefix string, limit int) ([]domain.User, error)

	// TopScores returns up to limit rows ordered by encoded score
	// descending.
	TopScores(ctx context.Context, limit int) ([]ScoreRow, error)

	// PlayerRank computes a player's inclusive-tie rank: the count of
	// rows whose encoded score is greater than or equal to theirs.
	// Returns ok=false when the player has no score row.
	PlayerRank(ctx context.Context, userID string) (PlayerRow, bool, error)

	// SaveScore writes the encoded score, inserting or replacing the
	// player's row.
	SaveScore(ctx context.Context, userID string, encoded float64) error

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// RankingClient is the cache surface the ranking core needs: the
// ordered ranking set plus the username hash. Implemented by the redis
// infrastructure package.
type RankingClient interface {
	// AddScore inserts or updates a member's encoded score in the
	// ordered ranking set.
	AddScore(ctx context.Context, userID string, encoded float64) error

	// TopScores returns up to limit members by descending encoded
	// score.
	TopScores(ctx context.Context, limit int) ([]MemberScore, error)

	// Rank returns a member's 0-based descending rank. ok is false
	// when the member is not in the set.
	Rank(ctx context.Context, userID string) (rank int64, ok bool, err error)

	// Score returns a member's encoded score. ok is false when the
	// member is not in the set.
	Score(ctx context.Context, userID string) (score float64, ok bool, err error)

	// CachedUsernames returns the cached subset of the requested ids.
	CachedUsernames(ctx context.Context, userIDs []string) (map[string]string, error)

	// CacheUsernames stores id to username mappings.
	CacheUsernames(ctx context.Context, usernames map[string]string) error

	// Close releases the underlying connection.
	Close() error
}
