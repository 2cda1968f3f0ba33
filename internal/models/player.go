package models

import (
	"database/sql"
	"time"
)

// Player is a roster row scoped to a league. ExternalID is the stable
// tenniscores identifier the source site assigns; it is the join key used by
// match records, never the internal primary key. A roster row may be
// deactivated and later recreated without invalidating historical matches
// that reference the external ID.
type Player struct {
	ID          int             `db:"id"`
	ExternalID  string          `db:"tenniscores_player_id"`
	LeagueID    int             `db:"league_id"`
	ClubID      sql.NullInt32   `db:"club_id"`
	SeriesID    sql.NullInt32   `db:"series_id"`
	TeamID      sql.NullInt32   `db:"team_id"`
	FirstName   string          `db:"first_name"`
	LastName    string          `db:"last_name"`
	PTI         sql.NullFloat64 `db:"pti"`
	StartingPTI sql.NullFloat64 `db:"starting_pti"`
	IsActive    bool            `db:"is_active"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// PlayerInput is the raw roster record as the extractor emits it. Field
// names mirror the scraped site verbatim; the transformer owns all
// normalization.
type PlayerInput struct {
	PlayerID  string `json:"Player ID"`
	FirstName string `json:"First Name"`
	LastName  string `json:"Last Name"`
	Club      string `json:"Club"`
	Series    string `json:"Series"`
	Team      string `json:"Series Mapping ID"`
	PTI       string `json:"PTI"`
}
