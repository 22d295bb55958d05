package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/surfacelog/surface-log-api/internal/service"
	"github.com/surfacelog/surface-log-api/pkg/response"
)

// FlagHandler exposes flagging endpoints.
type FlagHandler struct {
	flags *service.FlagService
}

// NewFlagHandler constructs handler.
func NewFlagHandler(flags *service.FlagService) *FlagHandler {
	return &FlagHandler{flags: flags}
}

// Create godoc
// @Summary Flag a transmission
// @Tags Flags
// @Produce json
// @Param id path string true "Log ID"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /logs/{id}/flags [post]
func (h *FlagHandler) Create(c *gin.Context) {
	flag, err := h.flags.Flag(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, flag)
}

// Mine godoc
// @Summary List the caller's flags
// @Tags Flags
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /flags/mine [get]
func (h *FlagHandler) Mine(c *gin.Context) {
	flags, err := h.flags.Mine(c.Request.Context(), callerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, flags, nil)
}
