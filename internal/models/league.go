package models

import "time"

// League is the root namespace entity. Created once per league and
// effectively immutable after that.
type League struct {
	ID        int       `db:"id"`
	LeagueKey string    `db:"league_key"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
