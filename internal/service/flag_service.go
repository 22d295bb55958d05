package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/surfacelog/surface-log-api/internal/models"
	"github.com/surfacelog/surface-log-api/internal/repository"
	appErrors "github.com/surfacelog/surface-log-api/pkg/errors"
)

type flagRepository interface {
	Create(ctx context.Context, flag *models.LogFlag) error
	ListByUser(ctx context.Context, userID string) ([]models.LogFlag, error)
}

// FlagService records user flags against log entries.
type FlagService struct {
	repo   flagRepository
	logger *zap.Logger
}

// NewFlagService constructs the service.
func NewFlagService(repo flagRepository, logger *zap.Logger) *FlagService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FlagService{repo: repo, logger: logger}
}

// Flag records that the user flagged the log entry. A repeat flag surfaces
// as a conflict and never duplicates the row; the store's unique constraint
// on (log_id, user_id) is the enforcement point.
func (s *FlagService) Flag(ctx context.Context, userID, logID string) (*models.LogFlag, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to flag posts")
	}
	if logID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "log id is required")
	}
	flag := &models.LogFlag{LogID: logID, UserID: userID}
	if err := s.repo.Create(ctx, flag); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "you already flagged this post")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, err.Error())
	}
	return flag, nil
}

// Mine lists every flag the user has placed.
func (s *FlagService) Mine(ctx context.Context, userID string) ([]models.LogFlag, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in required")
	}
	flags, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, err.Error())
	}
	if flags == nil {
		flags = []models.LogFlag{}
	}
	return flags, nil
}
