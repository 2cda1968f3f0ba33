// Package backup is the snapshot/restore collaborator the orchestration
// layer invokes around destructive loads. The loader never calls it; its
// own rollback already guarantees an unchanged database on failure, and the
// snapshot exists for disaster recovery beyond that.
package backup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"ptl/importer/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Config holds backup manager configuration
type Config struct {
	// Dir is where snapshot files are written
	Dir string
	// DatabaseURL is the postgres:// URL passed to pg_dump/pg_restore
	DatabaseURL string
}

// Handle identifies one snapshot on disk.
type Handle struct {
	ID        uuid.UUID `json:"id"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager takes and restores database snapshots via pg_dump/pg_restore in
// custom format.
type Manager struct {
	cfg Config
}

// NewManager creates a Manager and ensures the snapshot directory exists
func NewManager(cfg Config) (*Manager, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &Manager{cfg: cfg}, nil
}

// Snapshot dumps the database to a new snapshot file
func (m *Manager) Snapshot(ctx context.Context) (*Handle, error) {
	handle := &Handle{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
	}
	handle.Path = filepath.Join(m.cfg.Dir, fmt.Sprintf("snapshot_%s.dump", handle.ID))

	start := time.Now()
	cmd := exec.CommandContext(ctx, "pg_dump",
		"--format=custom",
		"--file", handle.Path,
		m.cfg.DatabaseURL,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		metrics.SnapshotsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("pg_dump failed: %w: %s", err, out)
	}

	metrics.SnapshotsTotal.WithLabelValues("ok").Inc()
	log.Info().
		Str("snapshot_id", handle.ID.String()).
		Str("path", handle.Path).
		Dur("duration", time.Since(start)).
		Msg("Database snapshot taken")

	return handle, nil
}

// Restore loads a snapshot back into the database, dropping objects that
// were created after the snapshot
func (m *Manager) Restore(ctx context.Context, handle *Handle) error {
	if _, err := os.Stat(handle.Path); err != nil {
		return fmt.Errorf("snapshot file missing: %w", err)
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, "pg_restore",
		"--clean",
		"--if-exists",
		"--dbname", m.cfg.DatabaseURL,
		handle.Path,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		metrics.RestoresTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("pg_restore failed: %w: %s", err, out)
	}

	metrics.RestoresTotal.WithLabelValues("ok").Inc()
	log.Warn().
		Str("snapshot_id", handle.ID.String()).
		Dur("duration", time.Since(start)).
		Msg("Database restored from snapshot")

	return nil
}

// Prune removes snapshot files older than the retention window
func (m *Manager) Prune(retention time.Duration) error {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		return fmt.Errorf("failed to read backup directory: %w", err)
	}

	cutoff := time.Now().Add(-retention)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(m.cfg.Dir, entry.Name())); err == nil {
				removed++
			}
		}
	}

	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Old snapshots pruned")
	}
	return nil
}
