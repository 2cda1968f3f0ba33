package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ptl/importer/internal/backup"
	"ptl/importer/internal/config"
	"ptl/importer/internal/lock"
	"ptl/importer/internal/metrics"
	"ptl/importer/internal/migrate"
	"ptl/importer/internal/repository"
	"ptl/importer/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration first; the log level comes from it
	cfg := config.MustLoad()
	setupLogger(cfg)

	log.Info().Msg("Starting league import worker")
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("data_dir", cfg.LeagueDataDir).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Apply schema migrations before anything touches the tables
	if err := migrate.Up(cfg.DatabaseDSN(), cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	// Initialize database connection
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
	log.Info().Msg("Database connection established")

	// Initialize the import lock; imports still run single-instance without it
	var importLock *lock.ImportLock
	importLock, err = lock.New(ctx, lock.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.ImportLockTTL)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without import lock")
		importLock = nil
	} else {
		defer importLock.Close()
		log.Info().Msg("Redis import lock connected")
	}

	// Initialize the backup manager
	var backups *backup.Manager
	if cfg.BackupEnabled {
		backups, err = backup.NewManager(backup.Config{
			Dir:         cfg.BackupDir,
			DatabaseURL: cfg.DatabaseURL(),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize backup manager")
		}
		log.Info().Str("dir", cfg.BackupDir).Msg("Backup manager initialized")
	}

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort)
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
				metrics.DBConnectionsActive.Set(float64(db.Pool.Stat().AcquiredConns()))
			case <-ctx.Done():
				return
			}
		}
	}()

	// Create and start scheduler
	sched := scheduler.NewScheduler(cfg, db, importLock, backups)

	if cfg.EnableScheduler {
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
		defer sched.Stop()
	} else {
		log.Warn().Msg("Scheduler disabled, worker will only serve metrics")
	}

	log.Info().Msg("Worker running")
	<-ctx.Done()
	log.Info().Msg("Worker stopped")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func startMetricsServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	log.Info().Str("addr", addr).Msg("Metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
