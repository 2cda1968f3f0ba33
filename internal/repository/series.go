package repository

import (
	"context"
	"fmt"

	"ptl/importer/internal/models"

	"github.com/jackc/pgx/v5"
)

// SeriesRepository handles series database operations
type SeriesRepository struct {
	db *Database
}

// Upsert inserts or updates a series by name. The returned bool is true when
// a new row was inserted.
func (r *SeriesRepository) Upsert(ctx context.Context, tx DBTX, series *models.Series) (bool, error) {
	query := `
		INSERT INTO series (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := tx.QueryRow(ctx, query, series.Name).
		Scan(&series.ID, &series.CreatedAt, &series.UpdatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert series: %w", err)
	}

	return inserted, nil
}

// GetByName retrieves a series by name, case-insensitively
func (r *SeriesRepository) GetByName(ctx context.Context, tx DBTX, name string) (*models.Series, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM series
		WHERE LOWER(name) = LOWER(TRIM($1))
	`

	var series models.Series
	err := tx.QueryRow(ctx, query, name).Scan(
		&series.ID, &series.Name, &series.CreatedAt, &series.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("series not found: name=%s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get series: %w", err)
	}

	return &series, nil
}

// LinkLeague records series membership in a league. The returned bool is
// true when the junction row was newly created.
func (r *SeriesRepository) LinkLeague(ctx context.Context, tx DBTX, seriesID, leagueID int) (bool, error) {
	query := `
		INSERT INTO series_leagues (series_id, league_id)
		VALUES ($1, $2)
		ON CONFLICT (series_id, league_id) DO NOTHING
	`

	tag, err := tx.Exec(ctx, query, seriesID, leagueID)
	if err != nil {
		return false, fmt.Errorf("failed to link series to league: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
