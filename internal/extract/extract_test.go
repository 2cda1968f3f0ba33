package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReadLeagueDir_FullDirectory(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, LeagueMetaFile, `{"League ID": "APTA_CHICAGO", "League Name": "APTA Chicago"}`)
	writeFile(t, dir, PlayersFile, `[
		{"Player ID": "nndz-100", "First Name": "Jane", "Last Name": "Doe",
		 "Club": "Tennaqua", "Series": "Series 22", "PTI": "31.5"}
	]`)
	writeFile(t, dir, MatchesFile, `[
		{"Date": "10/15/25", "Home Team": "Tennaqua - 22", "Away Team": "Lake Bluff - 22",
		 "Scores": "6-2, 6-3", "Winner": "Home", "Home Player 1 ID": "nndz-100"}
	]`)
	writeFile(t, dir, SeriesStatsFile, `[
		{"Series": "Series 22", "Team": "Tennaqua - 22", "Points": 12,
		 "Matches Won": 4, "Matches Lost": 1}
	]`)

	data, err := ReadLeagueDir(dir)
	require.NoError(t, err)

	assert.Equal(t, "APTA_CHICAGO", data.Meta.LeagueID)
	assert.Equal(t, "APTA Chicago", data.Meta.LeagueName)

	require.Len(t, data.Players, 1)
	assert.Equal(t, "nndz-100", data.Players[0].PlayerID)
	assert.Equal(t, "31.5", data.Players[0].PTI)

	require.Len(t, data.Matches, 1)
	assert.Equal(t, "nndz-100", data.Matches[0].HomePlayer1ID)

	require.Len(t, data.SeriesStats, 1)
	assert.Equal(t, 4, data.SeriesStats[0].MatchesWon)
}

func TestReadLeagueDir_OptionalFilesMayBeAbsent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, LeagueMetaFile, `{"League ID": "NSTF", "League Name": "North Shore"}`)

	data, err := ReadLeagueDir(dir)
	require.NoError(t, err)

	assert.Equal(t, "NSTF", data.Meta.LeagueID)
	assert.Empty(t, data.Players)
	assert.Empty(t, data.Matches)
	assert.Empty(t, data.SeriesStats)
}

func TestReadLeagueDir_MissingMetaFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, PlayersFile, `[]`)

	_, err := ReadLeagueDir(dir)
	assert.Error(t, err)
}

func TestReadLeagueDir_MetaWithoutIDFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, LeagueMetaFile, `{"League Name": "No ID"}`)

	_, err := ReadLeagueDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "League ID")
}

func TestReadLeagueDir_MalformedJSONFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, LeagueMetaFile, `{"League ID": "APTA_CHICAGO"}`)
	writeFile(t, dir, PlayersFile, `{not json`)

	_, err := ReadLeagueDir(dir)
	assert.Error(t, err)
}

func TestListLeagueDirs(t *testing.T) {
	root := t.TempDir()

	for _, name := range []string{"b_league", "a_league"} {
		dir := filepath.Join(root, name)
		require.NoError(t, os.Mkdir(dir, 0o755))
		writeFile(t, dir, LeagueMetaFile, `{"League ID": "X"}`)
	}

	// A directory without league.json and a loose file are both ignored
	require.NoError(t, os.Mkdir(filepath.Join(root, "not_a_league"), 0o755))
	writeFile(t, root, "stray.json", `{}`)

	dirs, err := ListLeagueDirs(root)
	require.NoError(t, err)

	require.Len(t, dirs, 2)
	assert.Equal(t, filepath.Join(root, "a_league"), dirs[0])
	assert.Equal(t, filepath.Join(root, "b_league"), dirs[1])
}
