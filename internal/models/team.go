package models

import "time"

// Team is resolved from a (club, series, league) combination and created
// lazily during player or match import when absent.
type Team struct {
	ID        int       `db:"id"`
	ClubID    int       `db:"club_id"`
	SeriesID  int       `db:"series_id"`
	LeagueID  int       `db:"league_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
