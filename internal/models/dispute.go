package models

import "time"

// LogDispute is an append-only correction request against a log entry.
type LogDispute struct {
	ID        string    `db:"id" json:"id"`
	LogID     string    `db:"log_id" json:"log_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
