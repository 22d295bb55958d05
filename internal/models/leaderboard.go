package models

// LeaderEntry ranks one handle inside a leaderboard window.
type LeaderEntry struct {
	HandleID string  `json:"handle_id"`
	Handle   string  `json:"handle"`
	Platform *string `json:"platform,omitempty"`
	Count    int     `json:"count"`
}

// NiceEntry ranks a handle by its share of good-sentiment logs.
type NiceEntry struct {
	HandleID    string  `json:"handle_id"`
	Handle      string  `json:"handle"`
	Platform    *string `json:"platform,omitempty"`
	Total       int     `json:"total"`
	GoodPercent int     `json:"good_pct"`
}

// Leaderboard bundles the ranked summaries shown on the board's front page.
// Handles with zero logs in a window are absent from that window's list.
type Leaderboard struct {
	MostReportedAllTime []LeaderEntry `json:"most_reported_all_time"`
	Most7d              []LeaderEntry `json:"most_7d"`
	Most24h             []LeaderEntry `json:"most_24h"`
	Nicest              []NiceEntry   `json:"nicest"`
}
