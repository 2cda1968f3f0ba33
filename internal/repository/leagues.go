package repository

import (
	"context"
	"fmt"

	"ptl/importer/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// LeagueRepository handles league database operations
type LeagueRepository struct {
	db *Database
}

// Upsert inserts or updates a league by its stable league key. The returned
// bool is true when a new row was inserted.
func (r *LeagueRepository) Upsert(ctx context.Context, tx DBTX, league *models.League) (bool, error) {
	query := `
		INSERT INTO leagues (league_key, name)
		VALUES ($1, $2)
		ON CONFLICT (league_key) DO UPDATE SET
			name = EXCLUDED.name,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := tx.QueryRow(ctx, query, league.LeagueKey, league.Name).
		Scan(&league.ID, &league.CreatedAt, &league.UpdatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert league: %w", err)
	}

	log.Debug().
		Int("id", league.ID).
		Str("league_key", league.LeagueKey).
		Bool("inserted", inserted).
		Msg("League upserted")

	return inserted, nil
}

// GetByKey retrieves a league by its stable league key
func (r *LeagueRepository) GetByKey(ctx context.Context, tx DBTX, key string) (*models.League, error) {
	query := `
		SELECT id, league_key, name, created_at, updated_at
		FROM leagues
		WHERE league_key = $1
	`

	var league models.League
	err := tx.QueryRow(ctx, query, key).Scan(
		&league.ID, &league.LeagueKey, &league.Name,
		&league.CreatedAt, &league.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("league not found: league_key=%s", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}

	return &league, nil
}

// Count returns the total number of leagues
func (r *LeagueRepository) Count(ctx context.Context, tx DBTX) (int, error) {
	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM leagues`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count leagues: %w", err)
	}
	return count, nil
}
