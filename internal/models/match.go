package models

import (
	"database/sql"
	"time"
)

// Match is a fact row referencing two teams and up to four participants.
// Participants are referenced by external player-ID strings, not internal
// primary keys. The natural key that backs the upsert is
// (league, date, home team, away team, scores).
type Match struct {
	ID          int            `db:"id"`
	LeagueID    int            `db:"league_id"`
	MatchDate   time.Time      `db:"match_date"`
	HomeTeamID  int            `db:"home_team_id"`
	AwayTeamID  int            `db:"away_team_id"`
	Scores      string         `db:"scores"`
	Winner      sql.NullString `db:"winner"`
	HomePlayer1 sql.NullString `db:"home_player_1_id"`
	HomePlayer2 sql.NullString `db:"home_player_2_id"`
	AwayPlayer1 sql.NullString `db:"away_player_1_id"`
	AwayPlayer2 sql.NullString `db:"away_player_2_id"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// MatchInput is the raw match-history record as the extractor emits it.
type MatchInput struct {
	Date          string `json:"Date"`
	HomeTeam      string `json:"Home Team"`
	AwayTeam      string `json:"Away Team"`
	Scores        string `json:"Scores"`
	Winner        string `json:"Winner"`
	HomePlayer1   string `json:"Home Player 1"`
	HomePlayer1ID string `json:"Home Player 1 ID"`
	HomePlayer2   string `json:"Home Player 2"`
	HomePlayer2ID string `json:"Home Player 2 ID"`
	AwayPlayer1   string `json:"Away Player 1"`
	AwayPlayer1ID string `json:"Away Player 1 ID"`
	AwayPlayer2   string `json:"Away Player 2"`
	AwayPlayer2ID string `json:"Away Player 2 ID"`
}
