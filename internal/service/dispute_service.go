package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/surfacelog/surface-log-api/internal/models"
	appErrors "github.com/surfacelog/surface-log-api/pkg/errors"
)

type disputeRepository interface {
	Create(ctx context.Context, dispute *models.LogDispute) error
}

// DisputeService records append-only correction requests.
type DisputeService struct {
	repo   disputeRepository
	logger *zap.Logger
}

// NewDisputeService constructs the service.
func NewDisputeService(repo disputeRepository, logger *zap.Logger) *DisputeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DisputeService{repo: repo, logger: logger}
}

// Open files a dispute against a log entry. The message is required.
func (s *DisputeService) Open(ctx context.Context, userID, logID, message string) (*models.LogDispute, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to dispute posts")
	}
	if logID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "log id is required")
	}
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dispute message is required")
	}
	dispute := &models.LogDispute{LogID: logID, UserID: userID, Message: trimmed}
	if err := s.repo.Create(ctx, dispute); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, err.Error())
	}
	return dispute, nil
}
