package models

import "time"

// SeriesStats is the per-team standings record for one series. The source
// always supplies a complete standings snapshot, so rows are replaced
// wholesale per import cycle rather than updated incrementally.
type SeriesStats struct {
	ID          int       `db:"id"`
	LeagueID    int       `db:"league_id"`
	SeriesID    int       `db:"series_id"`
	TeamID      int       `db:"team_id"`
	Points      int       `db:"points"`
	MatchesWon  int       `db:"matches_won"`
	MatchesLost int       `db:"matches_lost"`
	MatchesTied int       `db:"matches_tied"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// SeriesStatsInput is the raw standings record as the extractor emits it.
type SeriesStatsInput struct {
	Series      string `json:"Series"`
	Team        string `json:"Team"`
	Points      int    `json:"Points"`
	MatchesWon  int    `json:"Matches Won"`
	MatchesLost int    `json:"Matches Lost"`
	MatchesTied int    `json:"Matches Tied"`
}
