package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/podium-gg/podium/internal/domain"
	"github.com/podium-gg/podium/internal/infrastructure/logging"
	"github.com/podium-gg/podium/internal/infrastructure/metrics"
	"github.com/podium-gg/podium/internal/leaderboard"
)

// LeaderboardHandler exposes the four ranking operations over HTTP.
// Each request gets its own connection manager, released when the
// handler returns.
type LeaderboardHandler struct {
	params  leaderboard.Params
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(params leaderboard.Params, logger *logging.Logger, m *metrics.Metrics) *LeaderboardHandler {
	return &LeaderboardHandler{
		params:  params,
		logger:  logger,
		metrics: m,
	}
}

// RegisterRoutes registers the ranking routes on the given group.
func (h *LeaderboardHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/leaderboard", h.RetrieveTop10)
	g.GET("/players/search", h.SearchUser)
	g.GET("/players/:id", h.PlayerInfo)
	g.POST("/scores", h.UpsertScore)
}

// UpsertScoreRequest is the request body for submitting a score.
type UpsertScoreRequest struct {
	UserID string   `json:"user_id"`
	Score  *float64 `json:"score"`
}

// UpsertScoreResponse reports the rank resulting from a score submission.
type UpsertScoreResponse struct {
	NewRank int `json:"new_rank"`
}

// service builds the ranking store variant the request asked for.
// The returned release func must run on every exit path.
func (h *LeaderboardHandler) service(c echo.Context) (leaderboard.Service, leaderboard.Backend, func(), error) {
	backend, err := leaderboard.ParseBackend(c.QueryParam("backend"))
	if err != nil {
		return nil, "", nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	mgr := leaderboard.NewConnectionManager(h.params, h.logger)
	svc, err := leaderboard.New(backend, mgr, h.logger)
	if err != nil {
		mgr.Release()
		return nil, "", nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return svc, backend, mgr.Release, nil
}

// RetrieveTop10 handles GET /api/v1/leaderboard
// returns the ten highest-ranked players.
func (h *LeaderboardHandler) RetrieveTop10(c echo.Context) error {
	svc, backend, release, err := h.service(c)
	if err != nil {
		return err
	}
	defer release()

	entries, err := svc.RetrieveTop10(c.Request().Context())
	h.record("top10", backend, err)
	if err != nil {
		return mapDomainError(err)
	}

	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// PlayerInfo handles GET /api/v1/players/:id
// returns a single player's rank and score.
func (h *LeaderboardHandler) PlayerInfo(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "player id is required")
	}

	svc, backend, release, err := h.service(c)
	if err != nil {
		return err
	}
	defer release()

	entry, err := svc.PlayerInfo(c.Request().Context(), userID)
	h.record("player_info", backend, err)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, entry)
}

// SearchUser handles GET /api/v1/players/search?username=prefix
// returns players whose username starts with the given prefix.
func (h *LeaderboardHandler) SearchUser(c echo.Context) error {
	prefix := c.QueryParam("username")
	if prefix == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}

	svc, backend, release, err := h.service(c)
	if err != nil {
		return err
	}
	defer release()

	users, err := svc.SearchUser(c.Request().Context(), prefix)
	h.record("search_user", backend, err)
	if err != nil {
		return mapDomainError(err)
	}

	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// UpsertScore handles POST /api/v1/scores
// records a score for a registered player and returns the new rank.
func (h *LeaderboardHandler) UpsertScore(c echo.Context) error {
	var req UpsertScoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	if req.Score == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "score is required")
	}

	svc, backend, release, err := h.service(c)
	if err != nil {
		return err
	}
	defer release()

	rank, err := svc.UpsertScore(c.Request().Context(), req.UserID, *req.Score)
	h.record("upsert_score", backend, err)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, UpsertScoreResponse{NewRank: rank})
}

func (h *LeaderboardHandler) record(operation string, backend leaderboard.Backend, err error) {
	if h.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	h.metrics.RecordQuery(operation, string(backend), outcome)
}

// mapDomainError maps domain errors to HTTP errors.
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidUser):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnsupportedBackend):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConnection):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
