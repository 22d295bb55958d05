package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/surfacelog/surface-log-api/internal/models"
)

// DisputeRepository manages the append-only dispute records.
type DisputeRepository struct {
	db *sqlx.DB
}

// NewDisputeRepository constructs a new repository.
func NewDisputeRepository(db *sqlx.DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

// Create inserts a dispute row.
func (r *DisputeRepository) Create(ctx context.Context, dispute *models.LogDispute) error {
	if dispute.ID == "" {
		dispute.ID = uuid.NewString()
	}
	if dispute.CreatedAt.IsZero() {
		dispute.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO log_disputes (id, log_id, user_id, message, created_at)
VALUES (:id, :log_id, :user_id, :message, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, dispute); err != nil {
		return fmt.Errorf("create log dispute: %w", err)
	}
	return nil
}
