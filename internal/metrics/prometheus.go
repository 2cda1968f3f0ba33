package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the import service

var (
	// Import cycle metrics
	ImportRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptl_import_runs_total",
			Help: "Total number of import cycles by outcome",
		},
		[]string{"league", "status"},
	)

	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ptl_import_duration_seconds",
			Help:    "Duration of full import cycles in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"league"},
	)

	RollbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ptl_import_rollbacks_total",
			Help: "Total number of import transactions rolled back",
		},
	)

	// Record metrics
	RecordsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptl_import_records_total",
			Help: "Records processed per load stage and outcome",
		},
		[]string{"stage", "outcome"},
	)

	RecordErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptl_import_record_errors_total",
			Help: "Record-level validation errors by kind",
		},
		[]string{"kind"},
	)

	IntegrityViolationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ptl_import_integrity_violations_total",
			Help: "Integrity check violations detected before commit",
		},
	)

	// Status gauges
	LastImportTimestamp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ptl_last_import_timestamp_seconds",
			Help: "Unix timestamp of the last completed import per league",
		},
		[]string{"league"},
	)

	LastImportSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ptl_last_import_success",
			Help: "1 if the last import for the league committed, 0 otherwise",
		},
		[]string{"league"},
	)

	// Backup metrics
	SnapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptl_backup_snapshots_total",
			Help: "Database snapshots taken by outcome",
		},
		[]string{"status"},
	)

	RestoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptl_backup_restores_total",
			Help: "Database restores performed by outcome",
		},
		[]string{"status"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ptl_system_uptime_seconds",
			Help: "Worker uptime in seconds",
		},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ptl_db_connections_active",
			Help: "Number of active database connections",
		},
	)
)
