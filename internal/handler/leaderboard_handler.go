package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surfacelog/surface-log-api/internal/service"
	"github.com/surfacelog/surface-log-api/pkg/response"
)

// LeaderboardHandler exposes the watchlist summaries.
type LeaderboardHandler struct {
	boards *service.LeaderboardService
}

// NewLeaderboardHandler constructs handler.
func NewLeaderboardHandler(boards *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{boards: boards}
}

// Get godoc
// @Summary Leaderboard summaries
// @Tags Leaderboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /leaderboard [get]
func (h *LeaderboardHandler) Get(c *gin.Context) {
	board, err := h.boards.Boards(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, board, nil)
}
