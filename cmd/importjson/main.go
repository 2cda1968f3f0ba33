// Command importjson loads one league data directory into the database in a
// single atomic transaction and prints the structured batch report. It is
// the manual counterpart of the scheduled import cycle: no lock, no
// snapshot, just extract -> transform -> load.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"ptl/importer/internal/config"
	"ptl/importer/internal/extract"
	"ptl/importer/internal/loader"
	"ptl/importer/internal/repository"
	"ptl/importer/internal/transform"

	"github.com/rs/zerolog/log"
)

func main() {
	var dir string
	flag.StringVar(&dir, "dir", "", "league data directory (must contain league.json)")
	flag.Parse()

	if dir == "" {
		fmt.Fprintln(os.Stderr, "usage: importjson -dir path/to/league")
		os.Exit(2)
	}

	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	data, err := extract.ReadLeagueDir(dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read league data")
	}

	transformer := transform.NewTransformer()
	batch := transformer.BuildBatch(
		transform.LeagueMeta{Key: data.Meta.LeagueID, Name: data.Meta.LeagueName},
		data.Players,
		data.Matches,
		data.SeriesStats,
	)

	report, err := loader.New(db).Load(ctx, batch)
	if err != nil && !errors.Is(err, loader.ErrIntegrity) {
		log.Fatal().Err(err).Msg("Load failed")
	}

	out, marshalErr := json.MarshalIndent(report, "", "  ")
	if marshalErr != nil {
		log.Fatal().Err(marshalErr).Msg("Failed to marshal report")
	}
	fmt.Println(string(out))

	if !report.Committed {
		os.Exit(1)
	}
}
