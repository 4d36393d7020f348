package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/podium-gg/podium/internal/domain"
	"github.com/podium-gg/podium/internal/infrastructure/config"
	"github.com/podium-gg/podium/internal/infrastructure/logging"
)

// releaseTimeout bounds connection teardown so Release never hangs a
// finished request.
const releaseTimeout = 5 * time.Second

// CredentialSource resolves relational store credentials on demand.
// The connection manager memoizes the result, so a source backed by a
// remote secret store is hit at most once per request.
type CredentialSource func(ctx context.Context) (config.DatabaseConfig, error)

// StaticCredentials returns a source for already-resolved credentials.
func StaticCredentials(cfg config.DatabaseConfig) CredentialSource {
	return func(context.Context) (config.DatabaseConfig, error) {
		return cfg, nil
	}
}

// RelationalDialer opens a relational client for resolved credentials.
type RelationalDialer func(ctx context.Context, cfg config.DatabaseConfig) (RelationalClient, error)

// RankingDialer opens a ranking cache client for a cache endpoint.
type RankingDialer func(ctx context.Context, addr string) (RankingClient, error)

// Params carries everything a request needs to reach the two backing
// services. Built once at startup and shared read-only across requests.
type Params struct {
	Credentials    CredentialSource
	RedisAddr      string
	OpenRelational RelationalDialer
	OpenRanking    RankingDialer
}

// Connections hands out the backing-service clients for one request.
type Connections interface {
	Relational(ctx context.Context) (RelationalClient, error)
	Ranking(ctx context.Context) (RankingClient, error)

	// UserExists is the existence gate run before per-user reads and
	// all writes.
	UserExists(ctx context.Context, userID string) (bool, error)

	// Release closes any open clients. Idempotent; must run on every
	// exit path.
	Release()
}

// ConnectionManager lazily opens and memoizes one relational and one
// cache client for the duration of a single request. One instance per
// request; not safe for concurrent use.
type ConnectionManager struct {
	params Params
	logger *logging.Logger

	creds      *config.DatabaseConfig
	relational RelationalClient
	ranking    RankingClient
}

// NewConnectionManager creates a manager for one request.
func NewConnectionManager(params Params, logger *logging.Logger) *ConnectionManager {
	return &ConnectionManager{
		params: params,
		logger: logger.WithComponent("connections"),
	}
}

// Relational returns the memoized relational client, dialing on first
// use. Credential resolution happens here, once per manager.
func (m *ConnectionManager) Relational(ctx context.Context) (RelationalClient, error) {
	if m.relational != nil {
		return m.relational, nil
	}

	if m.creds == nil {
		creds, err := m.params.Credentials(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving credentials: %w: %w", domain.ErrConnection, err)
		}
		m.creds = &creds
	}

	client, err := m.params.OpenRelational(ctx, *m.creds)
	if err != nil {
		return nil, fmt.Errorf("dialing relational store: %w: %w", domain.ErrConnection, err)
	}

	m.relational = client
	return m.relational, nil
}

// Ranking returns the memoized cache client, dialing on first use.
func (m *ConnectionManager) Ranking(ctx context.Context) (RankingClient, error) {
	if m.ranking != nil {
		return m.ranking, nil
	}

	client, err := m.params.OpenRanking(ctx, m.params.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("dialing cache: %w: %w", domain.ErrConnection, err)
	}

	m.ranking = client
	return m.ranking, nil
}

// UserExists checks the relational store for a user row.
func (m *ConnectionManager) UserExists(ctx context.Context, userID string) (bool, error) {
	rel, err := m.Relational(ctx)
	if err != nil {
		return false, err
	}
	return rel.UserExists(ctx, userID)
}

// Release closes any open clients and clears memoization. Safe to call
// more than once and on managers that never dialed.
func (m *ConnectionManager) Release() {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	if m.relational != nil {
		if err := m.relational.Close(ctx); err != nil {
			m.logger.Warn("closing relational connection", "error", err.Error())
		}
		m.relational = nil
	}

	if m.ranking != nil {
		if err := m.ranking.Close(); err != nil {
			m.logger.Warn("closing cache connection", "error", err.Error())
		}
		m.ranking = nil
	}

	m.creds = nil
}
