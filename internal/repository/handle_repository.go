package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/surfacelog/surface-log-api/internal/models"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation. Handle resolution and flag dedup both key off this signal.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}
	return false
}

// HandleRepository provides database access for handle identities.
type HandleRepository struct {
	db *sqlx.DB
}

// NewHandleRepository creates a new instance of HandleRepository.
func NewHandleRepository(db *sqlx.DB) *HandleRepository {
	return &HandleRepository{db: db}
}

// FindByCanonicalKey returns the handle whose normalized key matches exactly.
func (r *HandleRepository) FindByCanonicalKey(ctx context.Context, key string) (*models.Handle, error) {
	const query = `SELECT id, handle, handle_normalized, platform, created_at FROM handles WHERE handle_normalized = $1 LIMIT 1`
	var handle models.Handle
	if err := r.db.GetContext(ctx, &handle, query, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find handle by canonical key: %w", err)
	}
	return &handle, nil
}

// FindByKeyOrDisplay looks a handle up by canonical key or exact display
// spelling. Used to recover after losing a creation race, where the existing
// row may predate normalization.
func (r *HandleRepository) FindByKeyOrDisplay(ctx context.Context, key, display string) (*models.Handle, error) {
	const query = `SELECT id, handle, handle_normalized, platform, created_at FROM handles WHERE handle_normalized = $1 OR handle = $2 LIMIT 1`
	var handle models.Handle
	if err := r.db.GetContext(ctx, &handle, query, key, display); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find handle by key or display: %w", err)
	}
	return &handle, nil
}

// Create inserts a new handle row. Unique-constraint violations on the
// canonical key are returned unwrapped so callers can detect the race.
func (r *HandleRepository) Create(ctx context.Context, handle *models.Handle) error {
	if handle.ID == "" {
		handle.ID = uuid.NewString()
	}
	if handle.CreatedAt.IsZero() {
		handle.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO handles (id, handle, handle_normalized, platform, created_at)
VALUES (:id, :handle, :handle_normalized, :platform, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, handle); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create handle: %w", err)
	}
	return nil
}

// Search returns handles whose display spelling contains the query
// case-insensitively, or whose canonical key equals the normalized query.
func (r *HandleRepository) Search(ctx context.Context, query, canonicalKey string, limit int) ([]models.Handle, error) {
	if limit <= 0 {
		limit = 50
	}
	const stmt = `SELECT id, handle, handle_normalized, platform, created_at
FROM handles
WHERE handle ILIKE $1 OR handle_normalized = $2
LIMIT $3`
	var handles []models.Handle
	if err := r.db.SelectContext(ctx, &handles, stmt, "%"+query+"%", canonicalKey, limit); err != nil {
		return nil, fmt.Errorf("search handles: %w", err)
	}
	return handles, nil
}
