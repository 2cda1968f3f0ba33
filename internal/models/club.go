package models

import "time"

// Club is a dimension entity shared across leagues via the club_leagues
// junction table. Upserted by name since source data carries names, not IDs.
type Club struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
