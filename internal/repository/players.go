package repository

import (
	"context"
	"fmt"

	"ptl/importer/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// PlayerRepository handles player database operations
type PlayerRepository struct {
	db *Database
}

// Upsert inserts or updates a player by (external ID, league). On update the
// current PTI, club/series/team references and name are refreshed and the
// row reactivates; starting_pti keeps its first-insert value. The returned
// bool is true when a new row was inserted.
func (r *PlayerRepository) Upsert(ctx context.Context, tx DBTX, player *models.Player) (bool, error) {
	query := `
		INSERT INTO players (
			tenniscores_player_id, league_id, club_id, series_id, team_id,
			first_name, last_name, pti, starting_pti, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, TRUE)
		ON CONFLICT (tenniscores_player_id, league_id) DO UPDATE SET
			club_id = EXCLUDED.club_id,
			series_id = EXCLUDED.series_id,
			team_id = EXCLUDED.team_id,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			pti = EXCLUDED.pti,
			is_active = TRUE,
			updated_at = NOW()
		RETURNING id, starting_pti, is_active, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := tx.QueryRow(
		ctx, query,
		player.ExternalID, player.LeagueID, player.ClubID, player.SeriesID,
		player.TeamID, player.FirstName, player.LastName, player.PTI,
	).Scan(
		&player.ID, &player.StartingPTI, &player.IsActive,
		&player.CreatedAt, &player.UpdatedAt, &inserted,
	)

	if err != nil {
		return false, fmt.Errorf("failed to upsert player: %w", err)
	}

	log.Debug().
		Int("id", player.ID).
		Str("external_id", player.ExternalID).
		Bool("inserted", inserted).
		Msg("Player upserted")

	return inserted, nil
}

// GetByExternalID retrieves a player by its external tenniscores ID within a
// league
func (r *PlayerRepository) GetByExternalID(ctx context.Context, tx DBTX, leagueID int, externalID string) (*models.Player, error) {
	query := `
		SELECT id, tenniscores_player_id, league_id, club_id, series_id, team_id,
		       first_name, last_name, pti, starting_pti, is_active, created_at, updated_at
		FROM players
		WHERE league_id = $1 AND tenniscores_player_id = $2
	`

	var player models.Player
	err := tx.QueryRow(ctx, query, leagueID, externalID).Scan(
		&player.ID, &player.ExternalID, &player.LeagueID,
		&player.ClubID, &player.SeriesID, &player.TeamID,
		&player.FirstName, &player.LastName,
		&player.PTI, &player.StartingPTI, &player.IsActive,
		&player.CreatedAt, &player.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("player not found: external_id=%s", externalID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return &player, nil
}

// ListExternalIDs returns the set of known external player IDs for a league.
// The loader uses this to validate match participant references against both
// rows upserted in the current transaction and pre-existing roster rows.
func (r *PlayerRepository) ListExternalIDs(ctx context.Context, tx DBTX, leagueID int) (map[string]struct{}, error) {
	query := `
		SELECT tenniscores_player_id
		FROM players
		WHERE league_id = $1
	`

	rows, err := tx.Query(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player external IDs: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan player external ID: %w", err)
		}
		ids[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player external IDs: %w", err)
	}

	return ids, nil
}

// Deactivate flips a player's active flag off, preserving the row for
// historical match references
func (r *PlayerRepository) Deactivate(ctx context.Context, tx DBTX, leagueID int, externalID string) error {
	query := `
		UPDATE players
		SET is_active = FALSE, updated_at = NOW()
		WHERE league_id = $1 AND tenniscores_player_id = $2
	`

	tag, err := tx.Exec(ctx, query, leagueID, externalID)
	if err != nil {
		return fmt.Errorf("failed to deactivate player: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player not found: external_id=%s", externalID)
	}

	log.Debug().Str("external_id", externalID).Msg("Player deactivated")
	return nil
}

// Count returns the total number of players
func (r *PlayerRepository) Count(ctx context.Context, tx DBTX) (int, error) {
	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}
