package models

import "time"

// Handle is the canonical identity record for a reported player name.
// The display spelling and platform are fixed at creation; later logs that
// use different casing do not rewrite them. CanonicalKey is unique across
// all handles and is the sole deduplication key.
type Handle struct {
	ID           string    `db:"id" json:"id"`
	Handle       string    `db:"handle" json:"handle"`
	CanonicalKey string    `db:"handle_normalized" json:"handle_normalized"`
	Platform     *string   `db:"platform" json:"platform,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// HandleInfo is the joined projection embedded in log rows.
type HandleInfo struct {
	ID       string  `db:"handle_id" json:"id"`
	Handle   string  `db:"handle" json:"handle"`
	Platform *string `db:"platform" json:"platform,omitempty"`
}
