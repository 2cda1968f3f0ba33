// Package extract reads the per-league JSON documents the scraper drops on
// disk. The scraping itself is a separate process; this package only owns
// the file contract between the two.
package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"ptl/importer/internal/models"

	"github.com/rs/zerolog/log"
)

// File names one extractor run writes into a league directory. Missing
// files mean the scraper had nothing for that entity; only the league meta
// file is mandatory.
const (
	LeagueMetaFile  = "league.json"
	PlayersFile     = "players.json"
	MatchesFile     = "match_history.json"
	SeriesStatsFile = "series_stats.json"
)

// LeagueMeta is the league.json document.
type LeagueMeta struct {
	LeagueID   string `json:"League ID"`
	LeagueName string `json:"League Name"`
}

// LeagueData is one complete extractor run for one league.
type LeagueData struct {
	Meta        LeagueMeta
	Players     []models.PlayerInput
	Matches     []models.MatchInput
	SeriesStats []models.SeriesStatsInput
}

// ReadLeagueDir loads one league's data directory.
func ReadLeagueDir(dir string) (*LeagueData, error) {
	data := &LeagueData{}

	if err := readJSONFile(filepath.Join(dir, LeagueMetaFile), &data.Meta); err != nil {
		return nil, err
	}
	if data.Meta.LeagueID == "" {
		return nil, fmt.Errorf("league meta %s: missing League ID", filepath.Join(dir, LeagueMetaFile))
	}

	if err := readOptionalJSONFile(filepath.Join(dir, PlayersFile), &data.Players); err != nil {
		return nil, err
	}
	if err := readOptionalJSONFile(filepath.Join(dir, MatchesFile), &data.Matches); err != nil {
		return nil, err
	}
	if err := readOptionalJSONFile(filepath.Join(dir, SeriesStatsFile), &data.SeriesStats); err != nil {
		return nil, err
	}

	log.Info().
		Str("league", data.Meta.LeagueID).
		Int("players", len(data.Players)).
		Int("matches", len(data.Matches)).
		Int("series_stats", len(data.SeriesStats)).
		Msg("League data read")

	return data, nil
}

// ListLeagueDirs returns the league directories under root in stable order.
// A league directory is any subdirectory containing a league meta file.
func ListLeagueDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read league data root %s: %w", root, err)
	}

	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, LeagueMetaFile)); err == nil {
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)

	return dirs, nil
}

func readJSONFile(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func readOptionalJSONFile(path string, v any) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("Optional data file absent")
		return nil
	}
	return readJSONFile(path, v)
}
