package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/podium-gg/podium/internal/domain"
	"github.com/podium-gg/podium/internal/infrastructure/config"
	"github.com/podium-gg/podium/internal/leaderboard"
)

// Client implements leaderboard.RelationalClient over a single
// dedicated connection. One instance per request; opened lazily by the
// connection manager and closed on release. Query failures are
// classified as domain.ErrConnection so callers can treat them as
// backend outages.
type Client struct {
	conn *pgx.Conn
}

// Open dials postgres with the resolved credentials. Matches the
// leaderboard.RelationalDialer signature.
func Open(ctx context.Context, cfg config.DatabaseConfig) (leaderboard.RelationalClient, error) {
	conn, err := pgx.Connect(ctx, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return &Client{conn: conn}, nil
}

// NewClient wraps an existing connection.
func NewClient(conn *pgx.Conn) *Client {
	return &Client{conn: conn}
}

// UserExists checks for a user row.
func (c *Client) UserExists(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM podium.users WHERE id = $1)`

	var exists bool
	if err := c.conn.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking user existence: %w: %w", domain.ErrConnection, err)
	}
	return exists, nil
}

// FindUsernames resolves usernames for a batch of ids in one query.
// Ids without a row are simply absent from the result.
func (c *Client) FindUsernames(ctx context.Context, userIDs []string) (map[string]string, error) {
	if len(userIDs) == 0 {
		return map[string]string{}, nil
	}

	const query = `SELECT id, username FROM podium.users WHERE id = ANY($1)`

	rows, err := c.conn.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("finding usernames: %w: %w", domain.ErrConnection, err)
	}
	defer rows.Close()

	usernames := make(map[string]string, len(userIDs))
	for rows.Next() {
		var id, username string
		if err := rows.Scan(&id, &username); err != nil {
			return nil, fmt.Errorf("scanning username row: %w: %w", domain.ErrConnection, err)
		}
		usernames[id] = username
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("finding usernames: %w: %w", domain.ErrConnection, err)
	}

	return usernames, nil
}

// SearchUsers returns users whose username starts with prefix, ordered
// by username so identical inputs always produce identical output.
func (c *Client) SearchUsers(ctx context.Context, prefix string, limit int) ([]domain.User, error) {
	const query = `
		SELECT id, username
		FROM podium.users
		WHERE username LIKE $1
		ORDER BY username
		LIMIT $2
	`

	rows, err := c.conn.Query(ctx, query, escapeLikePrefix(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w: %w", domain.ErrConnection, err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, fmt.Errorf("scanning user row: %w: %w", domain.ErrConnection, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching users: %w: %w", domain.ErrConnection, err)
	}

	return users, nil
}

// TopScores joins users to their encoded scores, highest first.
func (c *Client) TopScores(ctx context.Context, limit int) ([]leaderboard.ScoreRow, error) {
	const query = `
		SELECT u.id, u.username, l.score
		FROM podium.users u
		INNER JOIN podium.leaderboard l ON u.id = l.user_id
		ORDER BY l.score DESC
		LIMIT $1
	`

	rows, err := c.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top scores: %w: %w", domain.ErrConnection, err)
	}
	defer rows.Close()

	var results []leaderboard.ScoreRow
	for rows.Next() {
		var row leaderboard.ScoreRow
		if err := rows.Scan(&row.UserID, &row.Username, &row.Score); err != nil {
			return nil, fmt.Errorf("scanning score row: %w: %w", domain.ErrConnection, err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying top scores: %w: %w", domain.ErrConnection, err)
	}

	return results, nil
}

// PlayerRank computes the inclusive-tie rank: ties share the better
// rank because every row scoring at least as high is counted.
func (c *Client) PlayerRank(ctx context.Context, userID string) (leaderboard.PlayerRow, bool, error) {
	const query = `
		SELECT u.username, l1.score,
		       (SELECT COUNT(*) FROM podium.leaderboard l2 WHERE l2.score >= l1.score) AS user_rank
		FROM podium.leaderboard l1
		INNER JOIN podium.users u ON l1.user_id = u.id
		WHERE l1.user_id = $1
	`

	var row leaderboard.PlayerRow
	err := c.conn.QueryRow(ctx, query, userID).Scan(&row.Username, &row.Score, &row.Rank)
	if errors.Is(err, pgx.ErrNoRows) {
		return leaderboard.PlayerRow{}, false, nil
	}
	if err != nil {
		return leaderboard.PlayerRow{}, false, fmt.Errorf("computing player rank: %w: %w", domain.ErrConnection, err)
	}

	return row, true, nil
}

// SaveScore inserts or replaces the player's encoded score.
func (c *Client) SaveScore(ctx context.Context, userID string, encoded float64) error {
	const query = `
		INSERT INTO podium.leaderboard (user_id, score)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET score = EXCLUDED.score
	`

	if _, err := c.conn.Exec(ctx, query, userID, encoded); err != nil {
		return fmt.Errorf("saving score: %w: %w", domain.ErrConnection, err)
	}
	return nil
}

// Close terminates the connection.
func (c *Client) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// escapeLikePrefix neutralizes LIKE wildcards in user input so a prefix
// search stays a prefix search.
func escapeLikePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix)
}
