package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/podium-gg/podium/internal/domain"
	"github.com/podium-gg/podium/internal/infrastructure/logging"
)

func TestCachedRetrieveTop10_SortedSetOrder(t *testing.T) {
	conns := newFakeConnections()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	conns.rel.users["a"] = "ada"
	conns.rel.users["b"] = "brin"
	conns.rel.users["c"] = "cleo"
	conns.rank.set["a"] = domain.EncodeScore(80, base)
	conns.rank.set["b"] = domain.EncodeScore(80, base.Add(1*time.Minute))
	conns.rank.set["c"] = domain.EncodeScore(50, base)

	store := newCachedStore(conns, logging.New())

	entries, err := store.RetrieveTop10(context.Background())
	if err != nil {
		t.Fatalf("RetrieveTop10 failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].UserID != "a" || entries[0].Rank != 1 || entries[0].Score != 80 {
		t.Errorf("entry 0 = %+v, want ada rank 1 score 80", entries[0])
	}
	if entries[1].UserID != "b" || entries[1].Rank != 2 || entries[1].Score != 80 {
		t.Errorf("entry 1 = %+v, want brin rank 2 score 80", entries[1])
	}
	if entries[2].UserID != "c" || entries[2].Rank != 3 || entries[2].Score != 50 {
		t.Errorf("entry 2 = %+v, want cleo rank 3 score 50", entries[2])
	}
}

func TestCachedRetrieveTop10_PopulatesUsernameCache(t *testing.T) {
	conns := newFakeConnections()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	conns.rel.users["a"] = "ada"
	conns.rel.users["b"] = "brin"
	conns.rank.set["a"] = domain.EncodeScore(10, base)
	conns.rank.set["b"] = domain.EncodeScore(20, base)
	// one name already cached, one missing
	conns.rank.usernames["a"] = "ada"

	store := newCachedStore(conns, logging.New())

	entries, err := store.RetrieveTop10(context.Background())
	if err != nil {
		t.Fatalf("RetrieveTop10 failed: %v", err)
	}

	for _, e := range entries {
		if e.Username == "" {
			t.Errorf("entry %s missing username", e.UserID)
		}
	}

	if conns.rank.usernames["b"] != "brin" {
		t.Errorf("expected brin to be cached after read, cache = %v", conns.rank.usernames)
	}
}

func TestCachedPlayerInfo_TopPlayerGetsRankOne(t *testing.T) {
	conns := newFakeConnections()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	conns.rel.users["champ"] = "champ"
	conns.rank.set["champ"] = domain.EncodeScore(9000, base)

	store := newCachedStore(conns, logging.New())

	info, err := store.PlayerInfo(context.Background(), "champ")
	if err != nil {
		t.Fatalf("PlayerInfo failed: %v", err)
	}
	if info.Rank != 1 {
		t.Errorf("top player rank = %d, want 1", info.Rank)
	}
	if info.Score != 9000 {
		t.Errorf("top player score = %f, want 9000", info.Score)
	}
}

func TestCachedPlayerInfo_AbsentMemberNoFallback(t *testing.T) {
	conns := newFakeConnections()
	conns.rel.users["u1"] = "cold"
	// user has a relational score but is missing from the cold cache
	conns.rel.scores["u1"] = domain.EncodeScore(500, time.Now())

	store := newCachedStore(conns, logging.New())

	info, err := store.PlayerInfo(context.Background(), "u1")
	if err != nil {
		t.Fatalf("PlayerInfo failed: %v", err)
	}
	if info.Rank != -1 || info.Score != -1 {
		t.Errorf("absent member = rank %d score %f, want -1/-1", info.Rank, info.Score)
	}
	if info.Username != "cold" {
		t.Errorf("username = %q, want cold", info.Username)
	}
}

func TestCachedPlayerInfo_UnknownUser(t *testing.T) {
	conns := newFakeConnections()
	store := newCachedStore(conns, logging.New())

	_, err := store.PlayerInfo(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("PlayerInfo(ghost) error = %v, want ErrNotFound", err)
	}
}

func TestCachedUpsertScore_WritesThroughBothBackends(t *testing.T) {
	conns := newFakeConnections()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	conns.rel.users["u1"] = "alice"
	conns.rel.users["u2"] = "bob"
	conns.rank.set["u2"] = domain.EncodeScore(200, base)
	conns.rel.scores["u2"] = conns.rank.set["u2"]

	store := newCachedStore(conns, logging.New())
	store.now = fixedClock(base.Add(1 * time.Hour))

	rank, err := store.UpsertScore(context.Background(), "u1", 100)
	if err != nil {
		t.Fatalf("UpsertScore failed: %v", err)
	}
	if rank != 2 {
		t.Errorf("rank = %d, want 2", rank)
	}

	cached, ok := conns.rank.set["u1"]
	if !ok {
		t.Fatal("score missing from ranking set")
	}
	stored, ok := conns.rel.scores["u1"]
	if !ok {
		t.Fatal("score missing from relational store")
	}
	if cached != stored {
		t.Errorf("write-through diverged: cache %f vs store %f", cached, stored)
	}
	if domain.DisplayScore(cached) != 100 {
		t.Errorf("stored display score = %f, want 100", domain.DisplayScore(cached))
	}
}

func TestCachedUpsertScore_InvalidUserWritesNothing(t *testing.T) {
	conns := newFakeConnections()
	store := newCachedStore(conns, logging.New())

	_, err := store.UpsertScore(context.Background(), "ghost", 10)
	if !errors.Is(err, domain.ErrInvalidUser) {
		t.Errorf("UpsertScore(ghost) error = %v, want ErrInvalidUser", err)
	}
	if conns.rank.addCalls != 0 {
		t.Errorf("expected no cache writes, got %d", conns.rank.addCalls)
	}
	if conns.rel.saveCalls != 0 {
		t.Errorf("expected no relational writes, got %d", conns.rel.saveCalls)
	}
}

func TestCachedUpsertScore_RelationalFailureStillPropagates(t *testing.T) {
	conns := newFakeConnections()
	conns.rel.users["u1"] = "alice"
	// the postgres client classifies exec failures as ErrConnection;
	// the fake returns the same shape
	conns.rel.saveErr = fmt.Errorf("saving score: %w: %w", domain.ErrConnection, errDialRefused)

	store := newCachedStore(conns, logging.New())

	_, err := store.UpsertScore(context.Background(), "u1", 100)
	if err == nil {
		t.Fatal("expected error when relational write fails")
	}

	// the write-through failure must stay classified so the api layer
	// maps it to a retryable status
	if !errors.Is(err, domain.ErrConnection) {
		t.Errorf("write-through failure = %v, want ErrConnection", err)
	}

	// the cache write already landed; the operation must still report
	// failure so the caller knows it did not complete
	if _, ok := conns.rank.set["u1"]; !ok {
		t.Error("expected cache write to have happened before the failure")
	}
}
