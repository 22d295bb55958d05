package models

import "time"

// LogFlag records that a user flagged a log entry as wrong or abusive.
// At most one flag exists per (log, user) pair; the store's unique
// constraint enforces it.
type LogFlag struct {
	ID        string    `db:"id" json:"id"`
	LogID     string    `db:"log_id" json:"log_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
