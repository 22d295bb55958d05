package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/surfacelog/surface-log-api/internal/models"
)

// LogRepository manages persistence for community log entries.
type LogRepository struct {
	db *sqlx.DB
}

// NewLogRepository constructs a new repository.
func NewLogRepository(db *sqlx.DB) *LogRepository {
	return &LogRepository{db: db}
}

const logEntryColumns = `l.id, l.handle_id, l.sentiment, l.severity, l.encounter, l.category, l.description, l.hidden, l.created_at, h.handle, h.platform`

// Create inserts a new log entry.
func (r *LogRepository) Create(ctx context.Context, log *models.Log) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO logs (id, handle_id, sentiment, severity, encounter, category, description, reported_by, hidden, created_at)
VALUES (:id, :handle_id, :sentiment, :severity, :encounter, :category, :description, :reported_by, :hidden, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	return nil
}

// Feed returns the most recent visible log entries with handle info.
func (r *LogRepository) Feed(ctx context.Context, limit int) ([]models.LogEntry, error) {
	if limit <= 0 {
		limit = 25
	}
	query := fmt.Sprintf(`SELECT %s
FROM logs l
JOIN handles h ON h.id = l.handle_id
WHERE NOT l.hidden
ORDER BY l.created_at DESC
LIMIT $1`, logEntryColumns)
	var entries []models.LogEntry
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	return entries, nil
}

// ListByCanonicalKey returns a handle's visible history, newest first.
func (r *LogRepository) ListByCanonicalKey(ctx context.Context, key string) ([]models.LogEntry, error) {
	query := fmt.Sprintf(`SELECT %s
FROM logs l
JOIN handles h ON h.id = l.handle_id
WHERE h.handle_normalized = $1 AND NOT l.hidden
ORDER BY l.created_at DESC`, logEntryColumns)
	var entries []models.LogEntry
	if err := r.db.SelectContext(ctx, &entries, query, key); err != nil {
		return nil, fmt.Errorf("list logs by canonical key: %w", err)
	}
	return entries, nil
}

// ListByHandleIDs returns visible entries for any of the given handles,
// newest first, bounded by limit.
func (r *LogRepository) ListByHandleIDs(ctx context.Context, handleIDs []string, limit int) ([]models.LogEntry, error) {
	if len(handleIDs) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 200
	}
	query := fmt.Sprintf(`SELECT %s
FROM logs l
JOIN handles h ON h.id = l.handle_id
WHERE l.handle_id = ANY($1) AND NOT l.hidden
ORDER BY l.created_at DESC
LIMIT $2`, logEntryColumns)
	var entries []models.LogEntry
	if err := r.db.SelectContext(ctx, &entries, query, pq.Array(handleIDs), limit); err != nil {
		return nil, fmt.Errorf("list logs by handle ids: %w", err)
	}
	return entries, nil
}

// Window returns the slim rows the leaderboard aggregation consumes: the
// most recent entries by creation time, bounded by limit. Older entries are
// invisible to the computation by design.
func (r *LogRepository) Window(ctx context.Context, limit int) ([]models.WindowRow, error) {
	if limit <= 0 {
		limit = 5000
	}
	const query = `SELECT l.handle_id, h.handle, h.platform, l.sentiment, l.created_at
FROM logs l
JOIN handles h ON h.id = l.handle_id
WHERE NOT l.hidden
ORDER BY l.created_at DESC
LIMIT $1`
	var rows []models.WindowRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list leaderboard window: %w", err)
	}
	return rows, nil
}
