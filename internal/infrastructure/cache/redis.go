package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/podium-gg/podium/internal/domain"
	"github.com/podium-gg/podium/internal/leaderboard"
)

const (
	// RankingSetKey is the sorted set holding user_id to encoded score.
	RankingSetKey = "podium:leaderboard"

	// UsernameHashKey is the hash holding user_id to username.
	UsernameHashKey = "podium:users"

	// default connection timeout
	defaultConnectTimeout = 10 * time.Second
)

// RedisClient implements leaderboard.RankingClient: the ordered ranking
// set plus the cache-aside username hash, both under fixed well-known
// keys. Command failures are classified as domain.ErrConnection so
// callers can treat them as backend outages.
type RedisClient struct {
	client *redis.Client
}

// Open dials redis and verifies it responds. Matches the
// leaderboard.RankingDialer signature.
func Open(ctx context.Context, addr string) (leaderboard.RankingClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  defaultConnectTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClient wraps an existing client. Used by the seeder, which
// manages its own connection lifecycle.
func NewRedisClient(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

// AddScore upserts a member's encoded score via ZADD.
func (r *RedisClient) AddScore(ctx context.Context, userID string, encoded float64) error {
	err := r.client.ZAdd(ctx, RankingSetKey, redis.Z{
		Score:  encoded,
		Member: userID,
	}).Err()
	if err != nil {
		return fmt.Errorf("zadd failed: %w: %w", domain.ErrConnection, err)
	}
	return nil
}

// TopScores returns up to limit members ordered by encoded score
// descending.
func (r *RedisClient) TopScores(ctx context.Context, limit int) ([]leaderboard.MemberScore, error) {
	results, err := r.client.ZRevRangeWithScores(ctx, RankingSetKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange failed: %w: %w", domain.ErrConnection, err)
	}

	members := make([]leaderboard.MemberScore, 0, len(results))
	for _, z := range results {
		id, ok := z.Member.(string)
		if !ok {
			continue
		}
		members = append(members, leaderboard.MemberScore{
			UserID: id,
			Score:  z.Score,
		})
	}

	return members, nil
}

// Rank returns a member's 0-based descending rank, reporting absence
// instead of an error.
func (r *RedisClient) Rank(ctx context.Context, userID string) (int64, bool, error) {
	rank, err := r.client.ZRevRank(ctx, RankingSetKey, userID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("zrevrank failed: %w: %w", domain.ErrConnection, err)
	}
	return rank, true, nil
}

// Score returns a member's encoded score, reporting absence instead of
// an error.
func (r *RedisClient) Score(ctx context.Context, userID string) (float64, bool, error) {
	score, err := r.client.ZScore(ctx, RankingSetKey, userID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("zscore failed: %w: %w", domain.ErrConnection, err)
	}
	return score, true, nil
}

// CachedUsernames returns the cached subset of the requested ids via a
// single HMGET.
func (r *RedisClient) CachedUsernames(ctx context.Context, userIDs []string) (map[string]string, error) {
	if len(userIDs) == 0 {
		return map[string]string{}, nil
	}

	values, err := r.client.HMGet(ctx, UsernameHashKey, userIDs...).Result()
	if err != nil {
		return nil, fmt.Errorf("hmget failed: %w: %w", domain.ErrConnection, err)
	}

	usernames := make(map[string]string, len(userIDs))
	for i, v := range values {
		if v == nil {
			continue
		}
		if name, ok := v.(string); ok {
			usernames[userIDs[i]] = name
		}
	}

	return usernames, nil
}

// CacheUsernames stores id to username mappings via a single HSET.
func (r *RedisClient) CacheUsernames(ctx context.Context, usernames map[string]string) error {
	if len(usernames) == 0 {
		return nil
	}

	fields := make([]any, 0, len(usernames)*2)
	for id, name := range usernames {
		fields = append(fields, id, name)
	}

	if err := r.client.HSet(ctx, UsernameHashKey, fields...).Err(); err != nil {
		return fmt.Errorf("hset failed: %w: %w", domain.ErrConnection, err)
	}
	return nil
}

// SeedScores pipelines ZADD calls for one bulk-load batch.
func (r *RedisClient) SeedScores(ctx context.Context, members []leaderboard.MemberScore) error {
	pipe := r.client.Pipeline()
	for _, m := range members {
		pipe.ZAdd(ctx, RankingSetKey, redis.Z{Score: m.Score, Member: m.UserID})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipelined zadd failed: %w: %w", domain.ErrConnection, err)
	}
	return nil
}

// Size returns the number of ranked members.
func (r *RedisClient) Size(ctx context.Context) (int64, error) {
	count, err := r.client.ZCard(ctx, RankingSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("zcard failed: %w: %w", domain.ErrConnection, err)
	}
	return count, nil
}

// Close closes the redis connection.
func (r *RedisClient) Close() error {
	return r.client.Close()
}
