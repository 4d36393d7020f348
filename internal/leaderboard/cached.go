package leaderboard

import (
	"context"
	"fmt"

	"github.com/podium-gg/podium/internal/domain"
	"github.com/podium-gg/podium/internal/infrastructure/logging"
)

// cachedStore serves ranking from the redis sorted set, resolving
// display names through the cache-aside username hash. Writes go
// through to postgres so the set stays rebuildable from the system of
// record.
type cachedStore struct {
	base
	usernames *usernameCache
}

func newCachedStore(conns Connections, logger *logging.Logger) *cachedStore {
	return &cachedStore{
		base:      newBase(conns, logger.WithComponent("cached_store")),
		usernames: newUsernameCache(conns, logger),
	}
}

// RetrieveTop10 reads the top members from the ordered ranking set and
// batch-resolves their usernames.
func (s *cachedStore) RetrieveTop10(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	ranking, err := s.conns.Ranking(ctx)
	if err != nil {
		return nil, err
	}

	members, err := ranking.TopScores(ctx, topSize)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}

	names, err := s.usernames.usernames(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, 0, len(members))
	for i, m := range members {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:   m.UserID,
			Username: names[m.UserID],
			Score:    domain.DisplayScore(m.Score),
			Rank:     i + 1,
		})
	}

	return entries, nil
}

// PlayerInfo resolves the username cache-aside and reads rank and score
// from the ordered ranking set only. A member absent from the set
// reports rank -1 and score -1; there is no relational fallback on this
// path.
func (s *cachedStore) PlayerInfo(ctx context.Context, userID string) (domain.LeaderboardEntry, error) {
	if err := s.requireUser(ctx, userID, domain.ErrNotFound); err != nil {
		return domain.LeaderboardEntry{}, err
	}

	username, err := s.usernames.username(ctx, userID)
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}

	ranking, err := s.conns.Ranking(ctx)
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}

	entry := domain.LeaderboardEntry{
		UserID:   userID,
		Username: username,
		Score:    -1,
		Rank:     -1,
	}

	rank, ok, err := ranking.Rank(ctx, userID)
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	if ok {
		// the set reports 0-based ranks; the public contract is 1-based
		entry.Rank = int(rank) + 1
	}

	score, ok, err := ranking.Score(ctx, userID)
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	if ok {
		entry.Score = domain.DisplayScore(score)
	}

	return entry, nil
}

// SearchUser delegates to the shared relational prefix search.
func (s *cachedStore) SearchUser(ctx context.Context, prefix string) ([]domain.User, error) {
	return s.searchUser(ctx, prefix)
}

// UpsertScore writes the encoded score to the ordered ranking set and
// through to postgres, then reads the resulting rank back from the set.
// The two writes are independent calls; a failure after the first
// leaves the set ahead of the store until the player's next write, and
// still propagates so the caller knows the operation did not complete.
func (s *cachedStore) UpsertScore(ctx context.Context, userID string, score float64) (int, error) {
	if err := s.requireUser(ctx, userID, domain.ErrInvalidUser); err != nil {
		return 0, err
	}

	ranking, err := s.conns.Ranking(ctx)
	if err != nil {
		return 0, err
	}
	rel, err := s.conns.Relational(ctx)
	if err != nil {
		return 0, err
	}

	encoded := domain.EncodeScore(score, s.now())

	if err := ranking.AddScore(ctx, userID, encoded); err != nil {
		return 0, err
	}
	if err := rel.SaveScore(ctx, userID, encoded); err != nil {
		return 0, err
	}

	rank, ok, err := ranking.Rank(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("member %s missing from ranking set after write", userID)
	}

	s.logger.Debug("score upserted",
		"user_id", userID,
		"score", score,
		"rank", rank+1,
	)

	return int(rank) + 1, nil
}
