package leaderboard

import (
	"context"
	"time"

	"github.com/podium-gg/podium/internal/domain"
	"github.com/podium-gg/podium/internal/infrastructure/logging"
)

// base carries the behavior both ranking store variants share: prefix
// search, the user existence gate, and the submission clock. Composed
// into the variants, never used on its own.
type base struct {
	conns  Connections
	logger *logging.Logger

	// now stamps score submissions; swapped out in tests.
	now func() time.Time
}

func newBase(conns Connections, logger *logging.Logger) base {
	return base{
		conns:  conns,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// searchUser looks up players by username prefix. Search always goes to
// the relational store; it is never cached.
func (b *base) searchUser(ctx context.Context, prefix string) ([]domain.User, error) {
	rel, err := b.conns.Relational(ctx)
	if err != nil {
		return nil, err
	}

	users, err := rel.SearchUsers(ctx, prefix, searchLimit)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("user search completed",
		"prefix", prefix,
		"matches", len(users),
	)

	return users, nil
}

// requireUser gates an operation on the user existing in the relational
// store, returning missingErr when it does not.
func (b *base) requireUser(ctx context.Context, userID string, missingErr error) error {
	exists, err := b.conns.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return missingErr
	}
	return nil
}
