package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/surfacelog/surface-log-api/internal/models"
	appErrors "github.com/surfacelog/surface-log-api/pkg/errors"
)

const leaderboardCachePattern = "leaderboard:*"

type handleResolver interface {
	Resolve(ctx context.Context, rawHandle, platform string) (string, error)
}

type handleSearcher interface {
	Search(ctx context.Context, query, canonicalKey string, limit int) ([]models.Handle, error)
}

type logRepository interface {
	Create(ctx context.Context, log *models.Log) error
	Feed(ctx context.Context, limit int) ([]models.LogEntry, error)
	ListByCanonicalKey(ctx context.Context, key string) ([]models.LogEntry, error)
	ListByHandleIDs(ctx context.Context, handleIDs []string, limit int) ([]models.LogEntry, error)
}

type flagLister interface {
	ListLogIDsByUser(ctx context.Context, userID string, logIDs []string) ([]string, error)
}

// LogServiceConfig bounds feed and search reads.
type LogServiceConfig struct {
	FeedDefaultLimit  int
	FeedMaxLimit      int
	SearchHandleLimit int
	SearchLogLimit    int
}

// LogService handles submission and reads of community log entries.
type LogService struct {
	handles   handleResolver
	searcher  handleSearcher
	logs      logRepository
	flags     flagLister
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       LogServiceConfig
}

// NewLogService constructs the service.
func NewLogService(handles handleResolver, searcher handleSearcher, logs logRepository, flags flagLister, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg LogServiceConfig) *LogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FeedDefaultLimit <= 0 {
		cfg.FeedDefaultLimit = 25
	}
	if cfg.FeedMaxLimit <= 0 {
		cfg.FeedMaxLimit = 100
	}
	if cfg.SearchHandleLimit <= 0 {
		cfg.SearchHandleLimit = 50
	}
	if cfg.SearchLogLimit <= 0 {
		cfg.SearchLogLimit = 200
	}
	svc := &LogService{
		handles:   handles,
		searcher:  searcher,
		logs:      logs,
		flags:     flags,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
	svc.validator.RegisterValidation("sentiment", func(fl validator.FieldLevel) bool {
		return models.ValidSentiment(fl.Field().String())
	})
	svc.validator.RegisterValidation("severity", func(fl validator.FieldLevel) bool {
		return models.ValidSeverity(fl.Field().String())
	})
	svc.validator.RegisterValidation("encounter", func(fl validator.FieldLevel) bool {
		return models.ValidEncounter(fl.Field().String())
	})
	return svc
}

// SubmitLogRequest describes the submission payload.
type SubmitLogRequest struct {
	Handle      string `json:"handle" validate:"required"`
	Platform    string `json:"platform"`
	Sentiment   string `json:"sentiment" validate:"required,sentiment"`
	Severity    string `json:"severity" validate:"required,severity"`
	Encounter   string `json:"encounter" validate:"required,encounter"`
	Category    string `json:"category"`
	Description string `json:"description" validate:"required"`
}

// Submit validates the payload, resolves the handle identity and inserts one
// log entry attributed to the caller. Validation failures happen before any
// store call; resolution and insertion are not spanned by a transaction, so
// a resolved handle with zero entries can transiently exist.
func (s *LogService) Submit(ctx context.Context, userID string, req SubmitLogRequest) (*models.Log, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "description is required")
	}
	if strings.TrimSpace(req.Handle) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "handle is required")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "general"
	}

	handleID, err := s.handles.Resolve(ctx, req.Handle, req.Platform)
	if err != nil {
		return nil, err
	}

	log := &models.Log{
		HandleID:    handleID,
		Sentiment:   models.Sentiment(req.Sentiment),
		Severity:    models.Severity(req.Severity),
		Encounter:   models.Encounter(req.Encounter),
		Category:    category,
		Description: description,
	}
	if userID != "" {
		log.ReportedBy = &userID
	}

	if err := s.logs.Create(ctx, log); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, err.Error())
	}

	if s.metrics != nil {
		s.metrics.RecordLogSubmission(req.Sentiment)
	}
	if s.cache.Enabled() {
		// Courtesy freshness only; reads stay eventually consistent.
		if err := s.cache.Invalidate(ctx, leaderboardCachePattern); err != nil {
			s.logger.Warn("leaderboard cache invalidation failed", zap.Error(err))
		}
	}
	return log, nil
}

// FeedResult bundles feed entries with the caller's flagged ids.
type FeedResult struct {
	Entries     []models.LogEntry `json:"entries"`
	FlaggedByMe []string          `json:"flagged_by_me,omitempty"`
}

// Feed returns the newest visible entries. When userID is non-empty the
// result also carries which of those entries the caller already flagged.
func (s *LogService) Feed(ctx context.Context, userID string, limit int) (*FeedResult, error) {
	if limit <= 0 {
		limit = s.cfg.FeedDefaultLimit
	}
	if limit > s.cfg.FeedMaxLimit {
		limit = s.cfg.FeedMaxLimit
	}
	entries, err := s.logs.Feed(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, err.Error())
	}
	result := &FeedResult{Entries: entries}
	if userID != "" && len(entries) > 0 && s.flags != nil {
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		flagged, err := s.flags.ListLogIDsByUser(ctx, userID, ids)
		if err != nil {
			// The feed renders without the flag overlay rather than failing.
			s.logger.Warn("failed to load caller flags for feed", zap.Error(err))
		} else {
			result.FlaggedByMe = flagged
		}
	}
	return result, nil
}

// Search returns entries for every handle matching the query either by
// canonical-key equality or by case-insensitive display substring.
func (s *LogService) Search(ctx context.Context, query string) ([]models.LogEntry, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "search query is required")
	}
	key := NormalizeHandle(trimmed)
	handles, err := s.searcher.Search(ctx, trimmed, key, s.cfg.SearchHandleLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, err.Error())
	}
	if len(handles) == 0 {
		return []models.LogEntry{}, nil
	}
	seen := make(map[string]struct{}, len(handles))
	ids := make([]string, 0, len(handles))
	for _, h := range handles {
		if _, ok := seen[h.ID]; ok {
			continue
		}
		seen[h.ID] = struct{}{}
		ids = append(ids, h.ID)
	}
	entries, err := s.logs.ListByHandleIDs(ctx, ids, s.cfg.SearchLogLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, err.Error())
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}
	return entries, nil
}

// History returns the full visible history for a raw handle, matched by
// canonical key, newest first.
func (s *LogService) History(ctx context.Context, rawHandle string) ([]models.LogEntry, error) {
	key := NormalizeHandle(rawHandle)
	if key == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "handle is required")
	}
	entries, err := s.logs.ListByCanonicalKey(ctx, key)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, err.Error())
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}
	return entries, nil
}
