package leaderboard

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/podium-gg/podium/internal/domain"
)

// fakeRelational is an in-memory stand-in for the postgres client.
type fakeRelational struct {
	users  map[string]string  // id -> username
	scores map[string]float64 // id -> encoded score

	saveErr   error
	saveCalls int
	closed    int
}

func newFakeRelational() *fakeRelational {
	return &fakeRelational{
		users:  make(map[string]string),
		scores: make(map[string]float64),
	}
}

func (f *fakeRelational) UserExists(_ context.Context, userID string) (bool, error) {
	_, ok := f.users[userID]
	return ok, nil
}

func (f *fakeRelational) FindUsernames(_ context.Context, userIDs []string) (map[string]string, error) {
	found := map[string]string{}
	for _, id := range userIDs {
		if name, ok := f.users[id]; ok {
			found[id] = name
		}
	}
	return found, nil
}

func (f *fakeRelational) SearchUsers(_ context.Context, prefix string, limit int) ([]domain.User, error) {
	var users []domain.User
	for id, name := range f.users {
		if strings.HasPrefix(name, prefix) {
			users = append(users, domain.User{ID: id, Username: name})
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (f *fakeRelational) TopScores(_ context.Context, limit int) ([]ScoreRow, error) {
	var rows []ScoreRow
	for id, score := range f.scores {
		rows = append(rows, ScoreRow{UserID: id, Username: f.users[id], Score: score})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeRelational) PlayerRank(_ context.Context, userID string) (PlayerRow, bool, error) {
	score, ok := f.scores[userID]
	if !ok {
		return PlayerRow{}, false, nil
	}
	rank := 0
	for _, other := range f.scores {
		if other >= score {
			rank++
		}
	}
	return PlayerRow{Username: f.users[userID], Score: score, Rank: rank}, true, nil
}

func (f *fakeRelational) SaveScore(_ context.Context, userID string, encoded float64) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.scores[userID] = encoded
	return nil
}

func (f *fakeRelational) Close(context.Context) error {
	f.closed++
	return nil
}

// fakeRanking is an in-memory stand-in for the redis client.
type fakeRanking struct {
	set       map[string]float64 // ordered ranking set
	usernames map[string]string  // username hash

	addErr   error
	addCalls int
	closed   int
}

func newFakeRanking() *fakeRanking {
	return &fakeRanking{
		set:       make(map[string]float64),
		usernames: make(map[string]string),
	}
}

func (f *fakeRanking) ordered() []MemberScore {
	var members []MemberScore
	for id, score := range f.set {
		members = append(members, MemberScore{UserID: id, Score: score})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Score > members[j].Score })
	return members
}

func (f *fakeRanking) AddScore(_ context.Context, userID string, encoded float64) error {
	f.addCalls++
	if f.addErr != nil {
		return f.addErr
	}
	f.set[userID] = encoded
	return nil
}

func (f *fakeRanking) TopScores(_ context.Context, limit int) ([]MemberScore, error) {
	members := f.ordered()
	if len(members) > limit {
		members = members[:limit]
	}
	return members, nil
}

func (f *fakeRanking) Rank(_ context.Context, userID string) (int64, bool, error) {
	if _, ok := f.set[userID]; !ok {
		return 0, false, nil
	}
	for i, m := range f.ordered() {
		if m.UserID == userID {
			return int64(i), true, nil
		}
	}
	return 0, false, nil
}

func (f *fakeRanking) Score(_ context.Context, userID string) (float64, bool, error) {
	score, ok := f.set[userID]
	return score, ok, nil
}

func (f *fakeRanking) CachedUsernames(_ context.Context, userIDs []string) (map[string]string, error) {
	found := map[string]string{}
	for _, id := range userIDs {
		if name, ok := f.usernames[id]; ok {
			found[id] = name
		}
	}
	return found, nil
}

func (f *fakeRanking) CacheUsernames(_ context.Context, usernames map[string]string) error {
	for id, name := range usernames {
		f.usernames[id] = name
	}
	return nil
}

func (f *fakeRanking) Close() error {
	f.closed++
	return nil
}

// fakeConnections hands the fakes out without dialing anything.
type fakeConnections struct {
	rel      *fakeRelational
	rank     *fakeRanking
	released int
}

func newFakeConnections() *fakeConnections {
	return &fakeConnections{
		rel:  newFakeRelational(),
		rank: newFakeRanking(),
	}
}

func (f *fakeConnections) Relational(context.Context) (RelationalClient, error) {
	return f.rel, nil
}

func (f *fakeConnections) Ranking(context.Context) (RankingClient, error) {
	return f.rank, nil
}

func (f *fakeConnections) UserExists(ctx context.Context, userID string) (bool, error) {
	return f.rel.UserExists(ctx, userID)
}

func (f *fakeConnections) Release() {
	f.released++
}

var errDialRefused = errors.New("dial refused")
