package repository

import (
	"context"
	"fmt"

	"ptl/importer/internal/models"

	"github.com/rs/zerolog/log"
)

// SeriesStatsRepository handles series standings database operations
type SeriesStatsRepository struct {
	db *Database
}

// DeleteBySeries removes all standings rows for one series within a league.
// The loader calls this before inserting a fresh snapshot because the source
// always supplies complete standings, never a diff.
func (r *SeriesStatsRepository) DeleteBySeries(ctx context.Context, tx DBTX, leagueID, seriesID int) (int, error) {
	query := `DELETE FROM series_stats WHERE league_id = $1 AND series_id = $2`

	tag, err := tx.Exec(ctx, query, leagueID, seriesID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete series stats: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// Insert creates one standings row
func (r *SeriesStatsRepository) Insert(ctx context.Context, tx DBTX, stats *models.SeriesStats) error {
	query := `
		INSERT INTO series_stats (
			league_id, series_id, team_id, points,
			matches_won, matches_lost, matches_tied
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(
		ctx, query,
		stats.LeagueID, stats.SeriesID, stats.TeamID, stats.Points,
		stats.MatchesWon, stats.MatchesLost, stats.MatchesTied,
	).Scan(&stats.ID, &stats.CreatedAt, &stats.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert series stats: %w", err)
	}

	log.Debug().
		Int("series_id", stats.SeriesID).
		Int("team_id", stats.TeamID).
		Int("points", stats.Points).
		Msg("Series stats inserted")

	return nil
}

// GetByTeam retrieves the standings row for one team in a series
func (r *SeriesStatsRepository) GetByTeam(ctx context.Context, tx DBTX, seriesID, teamID int) (*models.SeriesStats, error) {
	query := `
		SELECT id, league_id, series_id, team_id, points,
		       matches_won, matches_lost, matches_tied, created_at, updated_at
		FROM series_stats
		WHERE series_id = $1 AND team_id = $2
	`

	var stats models.SeriesStats
	err := tx.QueryRow(ctx, query, seriesID, teamID).Scan(
		&stats.ID, &stats.LeagueID, &stats.SeriesID, &stats.TeamID, &stats.Points,
		&stats.MatchesWon, &stats.MatchesLost, &stats.MatchesTied,
		&stats.CreatedAt, &stats.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get series stats: %w", err)
	}

	return &stats, nil
}

// Count returns the total number of standings rows
func (r *SeriesStatsRepository) Count(ctx context.Context, tx DBTX) (int, error) {
	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM series_stats`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count series stats: %w", err)
	}
	return count, nil
}
