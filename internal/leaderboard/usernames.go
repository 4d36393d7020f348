package leaderboard

import (
	"context"

	"github.com/podium-gg/podium/internal/domain"
	"github.com/podium-gg/podium/internal/infrastructure/logging"
)

// usernameCache resolves user ids to usernames cache-aside: reads
// populate the redis hash from postgres on miss. The hash is
// best-effort and may be stale or empty at any time; postgres stays the
// source of truth.
type usernameCache struct {
	conns  Connections
	logger *logging.Logger
}

func newUsernameCache(conns Connections, logger *logging.Logger) *usernameCache {
	return &usernameCache{
		conns:  conns,
		logger: logger.WithComponent("username_cache"),
	}
}

// username resolves a single id, populating the cache on miss.
// Returns domain.ErrNotFound when the relational store has no row
// either.
func (c *usernameCache) username(ctx context.Context, userID string) (string, error) {
	names, err := c.usernames(ctx, []string{userID})
	if err != nil {
		return "", err
	}

	name, ok := names[userID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return name, nil
}

// usernames resolves a batch of ids. Cache hits are served from the
// redis hash; misses are fetched from postgres in one query and written
// back. Ids unknown to postgres are omitted, never negatively cached.
func (c *usernameCache) usernames(ctx context.Context, userIDs []string) (map[string]string, error) {
	if len(userIDs) == 0 {
		return map[string]string{}, nil
	}

	ranking, err := c.conns.Ranking(ctx)
	if err != nil {
		return nil, err
	}

	resolved, err := ranking.CachedUsernames(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	var misses []string
	for _, id := range userIDs {
		if _, ok := resolved[id]; !ok {
			misses = append(misses, id)
		}
	}

	if len(misses) == 0 {
		return resolved, nil
	}

	rel, err := c.conns.Relational(ctx)
	if err != nil {
		return nil, err
	}

	fetched, err := rel.FindUsernames(ctx, misses)
	if err != nil {
		return nil, err
	}

	if len(fetched) > 0 {
		if err := ranking.CacheUsernames(ctx, fetched); err != nil {
			return nil, err
		}
		for id, name := range fetched {
			resolved[id] = name
		}
	}

	c.logger.Debug("usernames resolved",
		"requested", len(userIDs),
		"cache_hits", len(userIDs)-len(misses),
		"fetched", len(fetched),
	)

	return resolved, nil
}
