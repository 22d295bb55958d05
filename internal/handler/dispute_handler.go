package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/surfacelog/surface-log-api/internal/service"
	appErrors "github.com/surfacelog/surface-log-api/pkg/errors"
	"github.com/surfacelog/surface-log-api/pkg/response"
)

// DisputeHandler exposes dispute endpoints.
type DisputeHandler struct {
	disputes *service.DisputeService
}

// NewDisputeHandler constructs handler.
func NewDisputeHandler(disputes *service.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputes: disputes}
}

type openDisputeRequest struct {
	Message string `json:"message"`
}

// Create godoc
// @Summary Dispute a transmission
// @Tags Disputes
// @Accept json
// @Produce json
// @Param id path string true "Log ID"
// @Param payload body openDisputeRequest true "Dispute message"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /logs/{id}/disputes [post]
func (h *DisputeHandler) Create(c *gin.Context) {
	var req openDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	dispute, err := h.disputes.Open(c.Request.Context(), callerID(c), c.Param("id"), req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dispute)
}
