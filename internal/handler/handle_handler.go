package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surfacelog/surface-log-api/internal/service"
	"github.com/surfacelog/surface-log-api/pkg/response"
)

// HandleHandler exposes per-handle history and export endpoints.
type HandleHandler struct {
	logs    *service.LogService
	exports *service.ExportService
}

// NewHandleHandler constructs handler.
func NewHandleHandler(logs *service.LogService, exports *service.ExportService) *HandleHandler {
	return &HandleHandler{logs: logs, exports: exports}
}

// History godoc
// @Summary Transmission history for a handle
// @Tags Handles
// @Produce json
// @Param handle path string true "Handle (any spelling)"
// @Success 200 {object} response.Envelope
// @Router /handles/{handle}/logs [get]
func (h *HandleHandler) History(c *gin.Context) {
	entries, err := h.logs.History(c.Request.Context(), c.Param("handle"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Export godoc
// @Summary Export a handle dossier
// @Tags Handles
// @Produce text/csv
// @Produce application/pdf
// @Param handle path string true "Handle (any spelling)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /handles/{handle}/export [get]
func (h *HandleHandler) Export(c *gin.Context) {
	result, err := h.exports.HandleDossier(c.Request.Context(), c.Param("handle"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
