package repository

import (
	"context"
	"fmt"
	"time"

	"ptl/importer/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// MatchRepository handles match database operations
type MatchRepository struct {
	db *Database
}

// Upsert inserts or updates a match by its natural key
// (league, date, home team, away team, scores). Re-importing the same match
// refreshes the winner and participant references instead of duplicating the
// row. The returned bool is true when a new row was inserted.
func (r *MatchRepository) Upsert(ctx context.Context, tx DBTX, match *models.Match) (bool, error) {
	query := `
		INSERT INTO matches (
			league_id, match_date, home_team_id, away_team_id, scores, winner,
			home_player_1_id, home_player_2_id, away_player_1_id, away_player_2_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (league_id, match_date, home_team_id, away_team_id, scores) DO UPDATE SET
			winner = EXCLUDED.winner,
			home_player_1_id = EXCLUDED.home_player_1_id,
			home_player_2_id = EXCLUDED.home_player_2_id,
			away_player_1_id = EXCLUDED.away_player_1_id,
			away_player_2_id = EXCLUDED.away_player_2_id,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := tx.QueryRow(
		ctx, query,
		match.LeagueID, match.MatchDate, match.HomeTeamID, match.AwayTeamID,
		match.Scores, match.Winner,
		match.HomePlayer1, match.HomePlayer2, match.AwayPlayer1, match.AwayPlayer2,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt, &inserted)

	if err != nil {
		return false, fmt.Errorf("failed to upsert match: %w", err)
	}

	log.Debug().
		Int("id", match.ID).
		Time("date", match.MatchDate).
		Int("home_team_id", match.HomeTeamID).
		Int("away_team_id", match.AwayTeamID).
		Bool("inserted", inserted).
		Msg("Match upserted")

	return inserted, nil
}

// GetByID retrieves a match by its database ID
func (r *MatchRepository) GetByID(ctx context.Context, tx DBTX, id int) (*models.Match, error) {
	query := `
		SELECT id, league_id, match_date, home_team_id, away_team_id, scores, winner,
		       home_player_1_id, home_player_2_id, away_player_1_id, away_player_2_id,
		       created_at, updated_at
		FROM matches
		WHERE id = $1
	`

	var match models.Match
	err := tx.QueryRow(ctx, query, id).Scan(
		&match.ID, &match.LeagueID, &match.MatchDate,
		&match.HomeTeamID, &match.AwayTeamID, &match.Scores, &match.Winner,
		&match.HomePlayer1, &match.HomePlayer2, &match.AwayPlayer1, &match.AwayPlayer2,
		&match.CreatedAt, &match.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("match not found: id=%d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return &match, nil
}

// ListByLeague retrieves all matches in a league ordered by date
func (r *MatchRepository) ListByLeague(ctx context.Context, tx DBTX, leagueID int) ([]*models.Match, error) {
	query := `
		SELECT id, league_id, match_date, home_team_id, away_team_id, scores, winner,
		       home_player_1_id, home_player_2_id, away_player_1_id, away_player_2_id,
		       created_at, updated_at
		FROM matches
		WHERE league_id = $1
		ORDER BY match_date, id
	`

	rows, err := tx.Query(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		var match models.Match
		err := rows.Scan(
			&match.ID, &match.LeagueID, &match.MatchDate,
			&match.HomeTeamID, &match.AwayTeamID, &match.Scores, &match.Winner,
			&match.HomePlayer1, &match.HomePlayer2, &match.AwayPlayer1, &match.AwayPlayer2,
			&match.CreatedAt, &match.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, &match)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}

	return matches, nil
}

// ListDatesByTeams returns the distinct match dates recorded between two
// teams, ordered chronologically
func (r *MatchRepository) ListDatesByTeams(ctx context.Context, tx DBTX, homeTeamID, awayTeamID int) ([]time.Time, error) {
	query := `
		SELECT DISTINCT match_date
		FROM matches
		WHERE home_team_id = $1 AND away_team_id = $2
		ORDER BY match_date
	`

	rows, err := tx.Query(ctx, query, homeTeamID, awayTeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list match dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan match date: %w", err)
		}
		dates = append(dates, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match dates: %w", err)
	}

	return dates, nil
}

// Count returns the total number of matches
func (r *MatchRepository) Count(ctx context.Context, tx DBTX) (int, error) {
	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}
