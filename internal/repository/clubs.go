package repository

import (
	"context"
	"fmt"

	"ptl/importer/internal/models"

	"github.com/jackc/pgx/v5"
)

// ClubRepository handles club database operations
type ClubRepository struct {
	db *Database
}

// Upsert inserts or updates a club by name. The returned bool is true when a
// new row was inserted.
func (r *ClubRepository) Upsert(ctx context.Context, tx DBTX, club *models.Club) (bool, error) {
	query := `
		INSERT INTO clubs (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := tx.QueryRow(ctx, query, club.Name).
		Scan(&club.ID, &club.CreatedAt, &club.UpdatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert club: %w", err)
	}

	return inserted, nil
}

// GetByName retrieves a club by name, case-insensitively
func (r *ClubRepository) GetByName(ctx context.Context, tx DBTX, name string) (*models.Club, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM clubs
		WHERE LOWER(name) = LOWER(TRIM($1))
	`

	var club models.Club
	err := tx.QueryRow(ctx, query, name).Scan(
		&club.ID, &club.Name, &club.CreatedAt, &club.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("club not found: name=%s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get club: %w", err)
	}

	return &club, nil
}

// LinkLeague records club membership in a league. The returned bool is true
// when the junction row was newly created.
func (r *ClubRepository) LinkLeague(ctx context.Context, tx DBTX, clubID, leagueID int) (bool, error) {
	query := `
		INSERT INTO club_leagues (club_id, league_id)
		VALUES ($1, $2)
		ON CONFLICT (club_id, league_id) DO NOTHING
	`

	tag, err := tx.Exec(ctx, query, clubID, leagueID)
	if err != nil {
		return false, fmt.Errorf("failed to link club to league: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
