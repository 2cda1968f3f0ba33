package transform

import (
	"testing"

	"ptl/importer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLeague() LeagueMeta {
	return LeagueMeta{Key: "APTA_CHICAGO", Name: "APTA Chicago"}
}

func TestBuildBatch_BadRecordsDoNotAbortBatch(t *testing.T) {
	tr := NewTransformer()

	players := []models.PlayerInput{
		{PlayerID: "nndz-100", FirstName: "Jane", LastName: "Doe", Club: "Tennaqua", Series: "Series 22", PTI: "31.5"},
		{PlayerID: "", FirstName: "No", LastName: "ID", Club: "Tennaqua", Series: "Series 22"},
		{PlayerID: "nndz-101", FirstName: "John", LastName: "Roe", Club: "Lake Bluff", Series: "Series 4"},
	}
	matches := []models.MatchInput{
		{Date: "10/15/25", HomeTeam: "Tennaqua - 22", AwayTeam: "Lake Bluff - 22", Scores: "6-2, 6-3", Winner: "Home"},
		{Date: "Unknown Date", HomeTeam: "Tennaqua - 22", AwayTeam: "Glen View - 22", Scores: "6-4, 6-4"},
	}
	stats := []models.SeriesStatsInput{
		{Series: "Series 22", Team: "Tennaqua - 22", Points: 12, MatchesWon: 4, MatchesLost: 1},
		{Series: "", Team: "Nowhere - 1"},
	}

	batch := tr.BuildBatch(testLeague(), players, matches, stats)

	// Good records survive, bad records become counted errors
	require.Len(t, batch.Players, 2)
	require.Len(t, batch.Matches, 1)
	require.Len(t, batch.Stats, 1)
	require.Len(t, batch.Errors, 3)

	kinds := map[ErrorKind]int{}
	for _, e := range batch.Errors {
		kinds[e.Kind]++
	}
	assert.Equal(t, 2, kinds[ErrKindMissingField])
	assert.Equal(t, 1, kinds[ErrKindDateParse])
}

func TestTransformPlayer_SubstituteSuffix(t *testing.T) {
	tr := NewTransformer()

	batch := tr.BuildBatch(testLeague(), []models.PlayerInput{
		{PlayerID: "nndz-200", FirstName: "Jane", LastName: "Doe(S)", Club: "Tennaqua", Series: "Series 22"},
		{PlayerID: "nndz-201", FirstName: "John", LastName: "Roe", Club: "Tennaqua", Series: "Series 22"},
	}, nil, nil)

	require.Len(t, batch.Players, 2)
	assert.Equal(t, "Doe", batch.Players[0].LastName)
	assert.True(t, batch.Players[0].IsSubstitute)
	assert.False(t, batch.Players[1].IsSubstitute)
}

func TestTransformPlayer_DerivesTeamAndPTI(t *testing.T) {
	tr := NewTransformer()

	batch := tr.BuildBatch(testLeague(), []models.PlayerInput{
		{PlayerID: "nndz-300", FirstName: "Jane", LastName: "Doe", Club: "Tennaqua", Series: "Series 22", PTI: "28.7"},
		{PlayerID: "nndz-301", FirstName: "John", LastName: "Roe", Club: "Glen View", Series: "Series 4", Team: "Glen View - 4a", PTI: "N/A"},
	}, nil, nil)

	require.Len(t, batch.Players, 2)
	require.Empty(t, batch.Errors)

	// Missing team name falls back to "Club - <series number>"
	assert.Equal(t, "Tennaqua - 22", batch.Players[0].Team)
	require.NotNil(t, batch.Players[0].PTI)
	assert.InDelta(t, 28.7, *batch.Players[0].PTI, 0.001)

	// Explicit team name wins; unparseable PTI is absent, not an error
	assert.Equal(t, "Glen View - 4a", batch.Players[1].Team)
	assert.Nil(t, batch.Players[1].PTI)
}

func TestTransformMatch_NormalizesScoresAndWinner(t *testing.T) {
	tr := NewTransformer()

	batch := tr.BuildBatch(testLeague(), nil, []models.MatchInput{
		{
			Date:          "October 15, 2025",
			HomeTeam:      " Tennaqua - 22 ",
			AwayTeam:      "Lake Bluff - 22",
			Scores:        "6-2,6-3, 7-5",
			Winner:        "Home",
			HomePlayer1ID: "nndz-100",
			AwayPlayer1ID: "nndz-101",
		},
	}, nil)

	require.Len(t, batch.Matches, 1)
	require.Empty(t, batch.Errors)

	m := batch.Matches[0]
	assert.Equal(t, mustParseDate("2025-10-15"), m.Date)
	assert.Equal(t, "Tennaqua - 22", m.HomeTeam)
	assert.Equal(t, "6-2, 6-3, 7-5", m.Scores)
	assert.Equal(t, "home", m.Winner)
	assert.Equal(t, "nndz-100", m.HomePlayer1ID)
}

func TestTransformMatch_CollectsAllFieldErrors(t *testing.T) {
	tr := NewTransformer()

	batch := tr.BuildBatch(testLeague(), nil, []models.MatchInput{
		{Date: "garbage", HomeTeam: "", AwayTeam: "Lake Bluff - 22", Scores: ""},
	}, nil)

	// One bad record can carry several errors; all of them are reported
	assert.Empty(t, batch.Matches)
	assert.Len(t, batch.Errors, 3)
}
