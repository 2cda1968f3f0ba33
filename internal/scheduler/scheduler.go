package scheduler

import (
	"context"
	"fmt"
	"time"

	"ptl/importer/internal/backup"
	"ptl/importer/internal/config"
	"ptl/importer/internal/extract"
	"ptl/importer/internal/loader"
	"ptl/importer/internal/lock"
	"ptl/importer/internal/metrics"
	"ptl/importer/internal/repository"
	"ptl/importer/internal/transform"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler is the orchestration wrapper around the import pipeline. It
// sequences extract -> transform -> load per league, takes a snapshot
// before loading and triggers a restore when the loader reports failure.
// The import cycle is strictly sequential; one cycle runs to completion
// before another may begin.
type Scheduler struct {
	cfg     *config.Config
	db      *repository.Database
	lock    *lock.ImportLock // nil when redis is unavailable
	backups *backup.Manager  // nil when backups are disabled
	cron    *cron.Cron
}

// NewScheduler creates a scheduler. lock and backups may be nil; the cycle
// then runs without cross-instance serialization or snapshots.
func NewScheduler(cfg *config.Config, db *repository.Database, importLock *lock.ImportLock, backups *backup.Manager) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		db:      db,
		lock:    importLock,
		backups: backups,
		cron:    cron.New(),
	}
}

// Start registers the nightly import cron job
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.cfg.ImportCron, func() {
		log.Info().Msg("Running scheduled import cycle...")
		if err := s.RunCycle(ctx); err != nil {
			log.Error().Err(err).Msg("Scheduled import cycle failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule import cycle: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.ImportCron).
		Msg("Import cycle scheduled")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	log.Info().Msg("Scheduler stopped")
}

// RunCycle executes one full import cycle over every league directory under
// the configured data root.
func (s *Scheduler) RunCycle(ctx context.Context) error {
	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("import lock: %w", err)
		}
		if !acquired {
			log.Warn().Msg("Another import cycle is running, skipping")
			return nil
		}
		defer func() {
			if err := s.lock.Release(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to release import lock")
			}
		}()
	}

	dirs, err := extract.ListLeagueDirs(s.cfg.LeagueDataDir)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		log.Warn().Str("root", s.cfg.LeagueDataDir).Msg("No league data directories found")
		return nil
	}

	// One snapshot covers the whole cycle; the loader's own rollback
	// handles per-batch failure, the snapshot handles everything worse.
	var handle *backup.Handle
	if s.backups != nil {
		handle, err = s.backups.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("pre-import snapshot: %w", err)
		}
	}

	for _, dir := range dirs {
		if err := s.importLeague(ctx, dir); err != nil {
			if s.backups != nil && handle != nil {
				if restoreErr := s.backups.Restore(ctx, handle); restoreErr != nil {
					log.Error().Err(restoreErr).Msg("Restore after failed import also failed")
				}
			}
			return fmt.Errorf("import of %s: %w", dir, err)
		}
	}

	return nil
}

// importLeague runs extract -> transform -> load for one league directory.
func (s *Scheduler) importLeague(ctx context.Context, dir string) error {
	start := time.Now()

	data, err := extract.ReadLeagueDir(dir)
	if err != nil {
		return err
	}

	transformer := transform.NewTransformer()
	batch := transformer.BuildBatch(
		transform.LeagueMeta{Key: data.Meta.LeagueID, Name: data.Meta.LeagueName},
		data.Players,
		data.Matches,
		data.SeriesStats,
	)

	report, err := loader.New(s.db).Load(ctx, batch)

	league := batch.League.Key
	metrics.ImportDuration.WithLabelValues(league).Observe(time.Since(start).Seconds())
	metrics.LastImportTimestamp.WithLabelValues(league).SetToCurrentTime()
	if report.Committed {
		metrics.ImportRunsTotal.WithLabelValues(league, "committed").Inc()
		metrics.LastImportSuccess.WithLabelValues(league).Set(1)
	} else {
		metrics.ImportRunsTotal.WithLabelValues(league, "rolled_back").Inc()
		metrics.LastImportSuccess.WithLabelValues(league).Set(0)
	}

	if err != nil {
		log.Error().
			Err(err).
			Str("league", league).
			Str("run_id", report.RunID.String()).
			Str("summary", report.Summary()).
			Msg("Import failed, database unchanged")
		return err
	}

	log.Info().
		Str("league", league).
		Str("run_id", report.RunID.String()).
		Str("summary", report.Summary()).
		Msg("Import complete")

	return nil
}
