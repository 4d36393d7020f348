package leaderboard

import (
	"context"

	"github.com/podium-gg/podium/internal/domain"
	"github.com/podium-gg/podium/internal/infrastructure/logging"
)

// relationalStore serves every ranking query straight from postgres.
// No cache involvement at all; the slow but always-consistent path.
type relationalStore struct {
	base
}

func newRelationalStore(conns Connections, logger *logging.Logger) *relationalStore {
	return &relationalStore{
		base: newBase(conns, logger.WithComponent("relational_store")),
	}
}

// RetrieveTop10 joins users to scores ordered by encoded score
// descending and assigns ranks by row order.
func (s *relationalStore) RetrieveTop10(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	rel, err := s.conns.Relational(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := rel.TopScores(ctx, topSize)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:   row.UserID,
			Username: row.Username,
			Score:    domain.DisplayScore(row.Score),
			Rank:     i + 1,
		})
	}

	return entries, nil
}

// PlayerInfo computes the player's rank as the count of rows scoring at
// least as high, counting ties inclusively. A registered player without
// a score row reports rank -1 and score -1.
func (s *relationalStore) PlayerInfo(ctx context.Context, userID string) (domain.LeaderboardEntry, error) {
	if err := s.requireUser(ctx, userID, domain.ErrNotFound); err != nil {
		return domain.LeaderboardEntry{}, err
	}

	rel, err := s.conns.Relational(ctx)
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}

	row, ok, err := rel.PlayerRank(ctx, userID)
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	if !ok {
		names, err := rel.FindUsernames(ctx, []string{userID})
		if err != nil {
			return domain.LeaderboardEntry{}, err
		}
		return domain.LeaderboardEntry{
			UserID:   userID,
			Username: names[userID],
			Score:    -1,
			Rank:     -1,
		}, nil
	}

	return domain.LeaderboardEntry{
		UserID:   userID,
		Username: row.Username,
		Score:    domain.DisplayScore(row.Score),
		Rank:     row.Rank,
	}, nil
}

// SearchUser delegates to the shared relational prefix search.
func (s *relationalStore) SearchUser(ctx context.Context, prefix string) ([]domain.User, error) {
	return s.searchUser(ctx, prefix)
}

// UpsertScore encodes and writes the score, then reports the resulting
// inclusive-tie rank.
func (s *relationalStore) UpsertScore(ctx context.Context, userID string, score float64) (int, error) {
	if err := s.requireUser(ctx, userID, domain.ErrInvalidUser); err != nil {
		return 0, err
	}

	rel, err := s.conns.Relational(ctx)
	if err != nil {
		return 0, err
	}

	encoded := domain.EncodeScore(score, s.now())
	if err := rel.SaveScore(ctx, userID, encoded); err != nil {
		return 0, err
	}

	row, ok, err := rel.PlayerRank(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		// the row was just written; a concurrent delete is the only
		// way to get here
		return -1, nil
	}

	s.logger.Debug("score upserted",
		"user_id", userID,
		"score", score,
		"rank", row.Rank,
	)

	return row.Rank, nil
}
