package models

import "time"

// Series is a dimension entity shared across leagues via the series_leagues
// junction table.
type Series struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
