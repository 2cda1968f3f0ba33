package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ptl/importer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedSecondTeam adds another team to the fixture's league so matches have
// two distinct sides.
func seedSecondTeam(t *testing.T, ctx context.Context, db *Database, fx *testFixture) *models.Team {
	club := &models.Club{Name: "Test Club B " + fx.Suffix}
	_, err := db.Clubs.Upsert(ctx, db.Pool, club)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Pool.Exec(ctx, `DELETE FROM clubs WHERE id = $1`, club.ID)
	})

	_, err = db.Clubs.LinkLeague(ctx, db.Pool, club.ID, fx.League.ID)
	require.NoError(t, err)

	team := &models.Team{
		ClubID:   club.ID,
		SeriesID: fx.Series.ID,
		LeagueID: fx.League.ID,
		Name:     "Test Club B " + fx.Suffix + " - 1",
	}
	_, err = db.Teams.Upsert(ctx, db.Pool, team)
	require.NoError(t, err)

	return team
}

func TestMatchUpsert_NaturalKeyPreventsDuplicates(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	fx := seedFixture(t, ctx, db)
	away := seedSecondTeam(t, ctx, db, fx)

	match := &models.Match{
		LeagueID:   fx.League.ID,
		MatchDate:  time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC),
		HomeTeamID: fx.Team.ID,
		AwayTeamID: away.ID,
		Scores:     "6-2, 6-3",
		Winner:     sql.NullString{String: "home", Valid: true},
	}

	inserted, err := db.Matches.Upsert(ctx, db.Pool, match)
	require.NoError(t, err)
	assert.True(t, inserted)

	firstID := match.ID

	// Re-importing the same match with a corrected winner updates in place
	match.Winner = sql.NullString{String: "away", Valid: true}
	inserted, err = db.Matches.Upsert(ctx, db.Pool, match)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, firstID, match.ID)

	matches, err := db.Matches.ListByLeague(ctx, db.Pool, fx.League.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1, "Natural-key upsert must not duplicate the match")
	assert.Equal(t, "away", matches[0].Winner.String)
}

func TestMatchUpsert_SameDayMatchesAreDistinctByScores(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	fx := seedFixture(t, ctx, db)
	away := seedSecondTeam(t, ctx, db, fx)

	date := time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC)

	// Two courts, same teams, same day: different scores mean different rows
	for _, scores := range []string{"6-2, 6-3", "7-5, 6-4"} {
		match := &models.Match{
			LeagueID:   fx.League.ID,
			MatchDate:  date,
			HomeTeamID: fx.Team.ID,
			AwayTeamID: away.ID,
			Scores:     scores,
		}
		inserted, err := db.Matches.Upsert(ctx, db.Pool, match)
		require.NoError(t, err)
		assert.True(t, inserted)
	}

	matches, err := db.Matches.ListByLeague(ctx, db.Pool, fx.League.ID)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestMatchListDatesByTeams_DistinctChronological(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	fx := seedFixture(t, ctx, db)
	away := seedSecondTeam(t, ctx, db, fx)

	// Three meetings on three dates, inserted out of order
	rawDates := []time.Time{
		time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.October, 22, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range rawDates {
		match := &models.Match{
			LeagueID:   fx.League.ID,
			MatchDate:  d,
			HomeTeamID: fx.Team.ID,
			AwayTeamID: away.ID,
			Scores:     "6-0, 6-0",
		}
		_, err := db.Matches.Upsert(ctx, db.Pool, match)
		require.NoError(t, err)
	}

	dates, err := db.Matches.ListDatesByTeams(ctx, db.Pool, fx.Team.ID, away.ID)
	require.NoError(t, err)

	// Three matches between the same teams keep three distinct dates
	require.Len(t, dates, 3)
	assert.True(t, dates[0].Before(dates[1]) && dates[1].Before(dates[2]),
		"Dates should come back chronologically")
}
