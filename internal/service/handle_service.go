package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/surfacelog/surface-log-api/internal/models"
	"github.com/surfacelog/surface-log-api/internal/repository"
	appErrors "github.com/surfacelog/surface-log-api/pkg/errors"
)

// NormalizeHandle maps a free-text handle to its canonical lookup key:
// lower-cased, trimmed, with every whitespace, period, underscore and hyphen
// removed outright. Idempotent; empty input normalizes to empty.
func NormalizeHandle(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsSpace(r) || r == '.' || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type handleRepository interface {
	FindByCanonicalKey(ctx context.Context, key string) (*models.Handle, error)
	FindByKeyOrDisplay(ctx context.Context, key, display string) (*models.Handle, error)
	Create(ctx context.Context, handle *models.Handle) error
}

// HandleService resolves raw handles to canonical handle identities.
type HandleService struct {
	repo    handleRepository
	metrics *MetricsService
	logger  *zap.Logger
}

// NewHandleService constructs the service.
func NewHandleService(repo handleRepository, metrics *MetricsService, logger *zap.Logger) *HandleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HandleService{repo: repo, metrics: metrics, logger: logger}
}

// Resolve finds or creates the canonical handle for the raw spelling and
// returns its id. Two concurrent first-time reporters of the same canonical
// key converge on a single id: the store's unique constraint decides the
// winner and the loser recovers by re-query. No client-side locking.
func (s *HandleService) Resolve(ctx context.Context, rawHandle, platform string) (string, error) {
	display := strings.TrimSpace(rawHandle)
	if display == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "handle is required")
	}
	key := NormalizeHandle(display)
	if key == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "handle is required")
	}

	existing, err := s.repo.FindByCanonicalKey(ctx, key)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", appErrors.Wrap(err, appErrors.ErrResolution.Code, appErrors.ErrResolution.Status, "handle lookup failed")
	}

	handle := &models.Handle{
		Handle:       display,
		CanonicalKey: key,
		Platform:     trimmedOrNil(platform),
	}
	createErr := s.repo.Create(ctx, handle)
	if createErr == nil {
		return handle.ID, nil
	}

	if !repository.IsUniqueViolation(createErr) {
		return "", appErrors.Wrap(createErr, appErrors.ErrResolution.Code, appErrors.ErrResolution.Status, "handle create failed")
	}

	// Lost the creation race; the winner's row must exist now.
	if s.metrics != nil {
		s.metrics.RecordHandleConflict()
	}
	s.logger.Debug("handle creation race recovered",
		zap.String("canonical_key", key))

	winner, requeryErr := s.repo.FindByKeyOrDisplay(ctx, key, display)
	if requeryErr != nil {
		return "", appErrors.Wrap(requeryErr, appErrors.ErrResolution.Code, appErrors.ErrResolution.Status, "handle exists but could not be re-fetched")
	}
	return winner.ID, nil
}

func trimmedOrNil(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
