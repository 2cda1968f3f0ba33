package loader

import (
	"context"
	"fmt"

	"ptl/importer/internal/repository"
)

// integrityCheck is one read-only consistency query. The count is the
// number of offending rows; anything above zero vetoes the commit.
type integrityCheck struct {
	name  string
	query string
}

// Checks run against the transaction's in-progress state, so they see every
// staged row before anything becomes visible to other connections. They are
// AND-combined: a single violation fails the whole batch.
var integrityChecks = []integrityCheck{
	{
		name: "matches reference existing home teams",
		query: `
			SELECT COUNT(*)
			FROM matches m
			LEFT JOIN teams t ON t.id = m.home_team_id
			WHERE m.league_id = $1 AND t.id IS NULL`,
	},
	{
		name: "matches reference existing away teams",
		query: `
			SELECT COUNT(*)
			FROM matches m
			LEFT JOIN teams t ON t.id = m.away_team_id
			WHERE m.league_id = $1 AND t.id IS NULL`,
	},
	{
		name: "matches have a date",
		query: `
			SELECT COUNT(*)
			FROM matches
			WHERE league_id = $1 AND match_date IS NULL`,
	},
	{
		name: "match natural keys are unique",
		query: `
			SELECT COALESCE(SUM(cnt - 1), 0) FROM (
				SELECT COUNT(*) AS cnt
				FROM matches
				WHERE league_id = $1
				GROUP BY match_date, home_team_id, away_team_id, scores
				HAVING COUNT(*) > 1
			) dup`,
	},
	{
		name: "active players reference existing teams",
		query: `
			SELECT COUNT(*)
			FROM players p
			LEFT JOIN teams t ON t.id = p.team_id
			WHERE p.league_id = $1 AND p.is_active AND p.team_id IS NOT NULL AND t.id IS NULL`,
	},
	{
		name: "match participants resolve to roster rows",
		query: `
			SELECT COUNT(*)
			FROM matches m
			WHERE m.league_id = $1 AND EXISTS (
				SELECT 1
				FROM unnest(ARRAY[
					m.home_player_1_id, m.home_player_2_id,
					m.away_player_1_id, m.away_player_2_id
				]) AS pid
				WHERE pid IS NOT NULL AND NOT EXISTS (
					SELECT 1 FROM players p
					WHERE p.league_id = m.league_id
					  AND p.tenniscores_player_id = pid
				)
			)`,
	},
}

// checkIntegrity runs every consistency check against the uncommitted
// transaction state and returns one message per violated check.
func checkIntegrity(ctx context.Context, tx repository.DBTX, leagueID int) ([]string, error) {
	var violations []string

	for _, check := range integrityChecks {
		var count int
		if err := tx.QueryRow(ctx, check.query, leagueID).Scan(&count); err != nil {
			return nil, fmt.Errorf("check %q: %w", check.name, err)
		}
		if count > 0 {
			violations = append(violations, fmt.Sprintf("%s: %d offending rows", check.name, count))
		}
	}

	return violations, nil
}
