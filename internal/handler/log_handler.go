package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/surfacelog/surface-log-api/internal/service"
	appErrors "github.com/surfacelog/surface-log-api/pkg/errors"
	"github.com/surfacelog/surface-log-api/pkg/response"
)

// LogHandler exposes feed, search and submission endpoints.
type LogHandler struct {
	logs *service.LogService
}

// NewLogHandler constructs handler.
func NewLogHandler(logs *service.LogService) *LogHandler {
	return &LogHandler{logs: logs}
}

// Feed godoc
// @Summary Latest transmissions
// @Tags Logs
// @Produce json
// @Param limit query int false "Max entries"
// @Success 200 {object} response.Envelope
// @Router /feed [get]
func (h *LogHandler) Feed(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	result, err := h.logs.Feed(c.Request.Context(), callerID(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Search godoc
// @Summary Search transmissions by handle
// @Tags Logs
// @Produce json
// @Param q query string true "Handle query"
// @Success 200 {object} response.Envelope
// @Router /search [get]
func (h *LogHandler) Search(c *gin.Context) {
	entries, err := h.logs.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Submit godoc
// @Summary Submit a new transmission
// @Tags Logs
// @Accept json
// @Produce json
// @Param payload body service.SubmitLogRequest true "Submission"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /logs [post]
func (h *LogHandler) Submit(c *gin.Context) {
	var req service.SubmitLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	log, err := h.logs.Submit(c.Request.Context(), callerID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, log)
}
