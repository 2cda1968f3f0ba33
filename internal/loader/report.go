package loader

import (
	"fmt"
	"time"

	"ptl/importer/internal/transform"

	"github.com/google/uuid"
)

// Stage identifies one load stage. Stages execute in the declared order;
// each depends on rows the previous stages made visible inside the
// transaction.
type Stage string

const (
	StageLeagues     Stage = "leagues"
	StageClubs       Stage = "clubs"
	StageSeries      Stage = "series"
	StageJunctions   Stage = "junctions"
	StageTeams       Stage = "teams"
	StagePlayers     Stage = "players"
	StageMatches     Stage = "matches"
	StageSeriesStats Stage = "series_stats"
)

// Stages lists all load stages in execution order.
var Stages = []Stage{
	StageLeagues,
	StageClubs,
	StageSeries,
	StageJunctions,
	StageTeams,
	StagePlayers,
	StageMatches,
	StageSeriesStats,
}

// StageCount tallies per-stage record outcomes.
type StageCount struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Report is the structured result of one load. It is returned to the
// orchestration layer, which decides whether to restore from backup; the
// loader itself never persists it.
type Report struct {
	RunID               uuid.UUID              `json:"run_id"`
	League              string                 `json:"league"`
	Committed           bool                   `json:"committed"`
	StartedAt           time.Time              `json:"started_at"`
	Duration            time.Duration          `json:"duration"`
	Stages              map[Stage]*StageCount  `json:"stage_counts"`
	RecordErrors        []transform.RecordError `json:"record_errors,omitempty"`
	IntegrityViolations []string               `json:"integrity_violations,omitempty"`
}

// NewReport creates a report with zeroed counts for every stage
func NewReport(league string) *Report {
	stages := make(map[Stage]*StageCount, len(Stages))
	for _, s := range Stages {
		stages[s] = &StageCount{}
	}

	return &Report{
		RunID:     uuid.New(),
		League:    league,
		StartedAt: time.Now().UTC(),
		Stages:    stages,
	}
}

// Count returns the tally for a stage
func (r *Report) Count(stage Stage) *StageCount {
	return r.Stages[stage]
}

// AddUpsert records an upsert outcome for a stage
func (r *Report) AddUpsert(stage Stage, inserted bool) {
	if inserted {
		r.Stages[stage].Inserted++
	} else {
		r.Stages[stage].Updated++
	}
}

// Fail records a failed record for a stage together with its record error
func (r *Report) Fail(stage Stage, recErr transform.RecordError) {
	r.Stages[stage].Failed++
	r.RecordErrors = append(r.RecordErrors, recErr)
}

// Skip records a skipped record for a stage
func (r *Report) Skip(stage Stage) {
	r.Stages[stage].Skipped++
}

// TotalFailed returns the number of failed records across all stages
func (r *Report) TotalFailed() int {
	total := 0
	for _, c := range r.Stages {
		total += c.Failed
	}
	return total
}

// Summary returns a one-line human-readable digest for logs
func (r *Report) Summary() string {
	inserted, updated, skipped, failed := 0, 0, 0, 0
	for _, c := range r.Stages {
		inserted += c.Inserted
		updated += c.Updated
		skipped += c.Skipped
		failed += c.Failed
	}

	return fmt.Sprintf(
		"committed=%t inserted=%d updated=%d skipped=%d failed=%d record_errors=%d integrity_violations=%d duration=%s",
		r.Committed, inserted, updated, skipped, failed,
		len(r.RecordErrors), len(r.IntegrityViolations), r.Duration.Round(time.Millisecond),
	)
}
