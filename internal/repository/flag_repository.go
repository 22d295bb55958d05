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

// FlagRepository manages persistence for log flags.
type FlagRepository struct {
	db *sqlx.DB
}

// NewFlagRepository constructs a new repository.
func NewFlagRepository(db *sqlx.DB) *FlagRepository {
	return &FlagRepository{db: db}
}

// Create inserts a flag row. The (log_id, user_id) unique constraint makes a
// repeat flag fail; that violation is returned unwrapped for detection.
func (r *FlagRepository) Create(ctx context.Context, flag *models.LogFlag) error {
	if flag.ID == "" {
		flag.ID = uuid.NewString()
	}
	if flag.CreatedAt.IsZero() {
		flag.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO log_flags (id, log_id, user_id, created_at)
VALUES (:id, :log_id, :user_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, flag); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create log flag: %w", err)
	}
	return nil
}

// ListLogIDsByUser returns which of the given log ids the user has flagged.
func (r *FlagRepository) ListLogIDsByUser(ctx context.Context, userID string, logIDs []string) ([]string, error) {
	if len(logIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT log_id FROM log_flags WHERE user_id = $1 AND log_id = ANY($2)`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, userID, pq.Array(logIDs)); err != nil {
		return nil, fmt.Errorf("list flagged log ids: %w", err)
	}
	return ids, nil
}

// ListByUser returns every flag a user has placed, newest first.
func (r *FlagRepository) ListByUser(ctx context.Context, userID string) ([]models.LogFlag, error) {
	const query = `SELECT id, log_id, user_id, created_at FROM log_flags WHERE user_id = $1 ORDER BY created_at DESC`
	var flags []models.LogFlag
	if err := r.db.SelectContext(ctx, &flags, query, userID); err != nil {
		return nil, fmt.Errorf("list flags by user: %w", err)
	}
	return flags, nil
}
