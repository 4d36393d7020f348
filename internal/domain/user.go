package domain

// User is a registered player. IDs are opaque strings assigned at
// registration; usernames are treated as immutable afterwards.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LeaderboardEntry is one row of a ranking response. Constructed per
// request, never persisted. Score is the display score, Rank is
// 1-based.
type LeaderboardEntry struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
	Rank     int     `json:"rank"`
}
