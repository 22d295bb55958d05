package models

import "time"

// Sentiment classifies how an encounter went.
type Sentiment string

const (
	SentimentGood    Sentiment = "good"
	SentimentNeutral Sentiment = "neutral"
	SentimentBad     Sentiment = "bad"
)

// Severity grades how serious a log entry is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Encounter names the situation the interaction happened in.
type Encounter string

const (
	EncounterSpawnIn    Encounter = "spawn_in"
	EncounterObjective  Encounter = "objective"
	EncounterExtraction Encounter = "extraction"
	EncounterThirdParty Encounter = "third_party"
	EncounterComms      Encounter = "comms"
	EncounterOther      Encounter = "other"
)

// ValidSentiment reports whether s is a canonical sentiment value.
func ValidSentiment(s string) bool {
	switch Sentiment(s) {
	case SentimentGood, SentimentNeutral, SentimentBad:
		return true
	}
	return false
}

// ValidSeverity reports whether s is a canonical severity value.
func ValidSeverity(s string) bool {
	switch Severity(s) {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// ValidEncounter reports whether s is a canonical encounter value.
func ValidEncounter(s string) bool {
	switch Encounter(s) {
	case EncounterSpawnIn, EncounterObjective, EncounterExtraction,
		EncounterThirdParty, EncounterComms, EncounterOther:
		return true
	}
	return false
}

// Log is one community-submitted interaction record ("transmission") tied to
// a handle. Immutable after insert except for the moderation hidden flag.
type Log struct {
	ID          string    `db:"id" json:"id"`
	HandleID    string    `db:"handle_id" json:"handle_id"`
	Sentiment   Sentiment `db:"sentiment" json:"sentiment"`
	Severity    Severity  `db:"severity" json:"severity"`
	Encounter   Encounter `db:"encounter" json:"encounter"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	ReportedBy  *string   `db:"reported_by" json:"reported_by,omitempty"`
	Hidden      bool      `db:"hidden" json:"hidden"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// LogEntry is a log joined with its handle, as rendered in the feed, search
// results and per-handle history.
type LogEntry struct {
	ID          string    `db:"id" json:"id"`
	HandleID    string    `db:"handle_id" json:"handle_id"`
	Sentiment   Sentiment `db:"sentiment" json:"sentiment"`
	Severity    Severity  `db:"severity" json:"severity"`
	Encounter   Encounter `db:"encounter" json:"encounter"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	Hidden      bool      `db:"hidden" json:"hidden"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Handle      string    `db:"handle" json:"handle"`
	Platform    *string   `db:"platform" json:"platform,omitempty"`
}

// WindowRow is the slim projection the leaderboard aggregation consumes.
type WindowRow struct {
	HandleID  string    `db:"handle_id" json:"handle_id"`
	Handle    string    `db:"handle" json:"handle"`
	Platform  *string   `db:"platform" json:"platform,omitempty"`
	Sentiment Sentiment `db:"sentiment" json:"sentiment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
