package repository

import (
	"context"
	"fmt"

	"ptl/importer/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *Database
}

// Upsert inserts or updates a team by its (club, series, league) natural
// key. The returned bool is true when a new row was inserted.
func (r *TeamRepository) Upsert(ctx context.Context, tx DBTX, team *models.Team) (bool, error) {
	query := `
		INSERT INTO teams (club_id, series_id, league_id, name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (club_id, series_id, league_id) DO UPDATE SET
			name = EXCLUDED.name,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := tx.QueryRow(
		ctx, query,
		team.ClubID, team.SeriesID, team.LeagueID, team.Name,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt, &inserted)

	if err != nil {
		return false, fmt.Errorf("failed to upsert team: %w", err)
	}

	log.Debug().
		Int("id", team.ID).
		Str("name", team.Name).
		Bool("inserted", inserted).
		Msg("Team upserted")

	return inserted, nil
}

// GetByID retrieves a team by its database ID
func (r *TeamRepository) GetByID(ctx context.Context, tx DBTX, id int) (*models.Team, error) {
	query := `
		SELECT id, club_id, series_id, league_id, name, created_at, updated_at
		FROM teams
		WHERE id = $1
	`

	var team models.Team
	err := tx.QueryRow(ctx, query, id).Scan(
		&team.ID, &team.ClubID, &team.SeriesID, &team.LeagueID,
		&team.Name, &team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team not found: id=%d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// GetByName retrieves a team by display name within a league,
// case-insensitively
func (r *TeamRepository) GetByName(ctx context.Context, tx DBTX, leagueID int, name string) (*models.Team, error) {
	query := `
		SELECT id, club_id, series_id, league_id, name, created_at, updated_at
		FROM teams
		WHERE league_id = $1 AND LOWER(name) = LOWER(TRIM($2))
	`

	var team models.Team
	err := tx.QueryRow(ctx, query, leagueID, name).Scan(
		&team.ID, &team.ClubID, &team.SeriesID, &team.LeagueID,
		&team.Name, &team.CreatedAt, &team.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("team not found: name=%s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// ListByLeague retrieves all teams in a league
func (r *TeamRepository) ListByLeague(ctx context.Context, tx DBTX, leagueID int) ([]*models.Team, error) {
	query := `
		SELECT id, club_id, series_id, league_id, name, created_at, updated_at
		FROM teams
		WHERE league_id = $1
		ORDER BY name
	`

	rows, err := tx.Query(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		var team models.Team
		err := rows.Scan(
			&team.ID, &team.ClubID, &team.SeriesID, &team.LeagueID,
			&team.Name, &team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	return teams, nil
}

// Count returns the total number of teams
func (r *TeamRepository) Count(ctx context.Context, tx DBTX) (int, error) {
	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}
