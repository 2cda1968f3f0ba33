package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ptl/importer/internal/metrics"
	"ptl/importer/internal/models"
	"ptl/importer/internal/repository"
	"ptl/importer/internal/transform"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// ErrIntegrity marks a batch rejected by the post-load integrity checks.
// The transaction has already been rolled back when this is returned.
var ErrIntegrity = errors.New("integrity checks failed")

// Loader writes one transformed batch into the database with all-or-nothing
// semantics. Every stage runs inside a single transaction; concurrent
// readers see either the pre-load or post-load state, never an intermediate
// one. The loader never invokes backup or restore; that is the
// orchestration layer's call to make from the returned report.
type Loader struct {
	db *repository.Database
}

// New creates a Loader bound to a database
func New(db *repository.Database) *Loader {
	return &Loader{db: db}
}

// loadState carries per-batch context between stages.
type loadState struct {
	batch    *transform.Batch
	report   *Report
	resolver *transform.Resolver
	leagueID int

	clubNames   []string
	seriesNames []string

	// external player IDs visible in the transaction after the player stage
	knownPlayers map[string]struct{}
}

// Load runs stages 1-7 in dependency order inside one transaction, verifies
// integrity, and commits only if every stage and every check succeeds.
// The returned report is always non-nil; Committed tells the caller whether
// anything was published.
func (l *Loader) Load(ctx context.Context, batch *transform.Batch) (*Report, error) {
	report := NewReport(batch.League.Key)
	report.RecordErrors = append(report.RecordErrors, batch.Errors...)

	tx, err := l.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		l.finish(report)
		return report, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// No-op once Commit has succeeded
	defer tx.Rollback(ctx)

	st := &loadState{
		batch:    batch,
		report:   report,
		resolver: transform.NewResolver(),
	}

	stages := []struct {
		name Stage
		run  func(context.Context, pgx.Tx, *loadState) error
	}{
		{StageLeagues, l.loadLeague},
		{StageClubs, l.loadClubs},
		{StageSeries, l.loadSeries},
		{StageJunctions, l.loadJunctions},
		{StageTeams, l.loadTeams},
		{StagePlayers, l.loadPlayers},
		{StageMatches, l.loadMatches},
		{StageSeriesStats, l.loadSeriesStats},
	}

	for _, stage := range stages {
		stageStart := time.Now()
		if err := stage.run(ctx, tx, st); err != nil {
			l.finish(report)
			return report, fmt.Errorf("stage %s: %w", stage.name, err)
		}
		log.Debug().
			Str("stage", string(stage.name)).
			Dur("duration", time.Since(stageStart)).
			Msg("Load stage complete")
	}

	violations, err := checkIntegrity(ctx, tx, st.leagueID)
	if err != nil {
		l.finish(report)
		return report, fmt.Errorf("integrity checks: %w", err)
	}
	if len(violations) > 0 {
		report.IntegrityViolations = violations
		metrics.IntegrityViolationsTotal.Add(float64(len(violations)))
		l.finish(report)
		log.Error().
			Strs("violations", violations).
			Str("run_id", report.RunID.String()).
			Msg("Integrity checks failed, rolling back batch")
		return report, ErrIntegrity
	}

	if err := tx.Commit(ctx); err != nil {
		l.finish(report)
		return report, fmt.Errorf("failed to commit transaction: %w", err)
	}

	report.Committed = true
	l.finish(report)

	log.Info().
		Str("league", batch.League.Key).
		Str("run_id", report.RunID.String()).
		Str("summary", report.Summary()).
		Msg("Batch committed")

	return report, nil
}

// finish stamps the duration and flushes report counts into metrics.
func (l *Loader) finish(report *Report) {
	report.Duration = time.Since(report.StartedAt)

	for stage, c := range report.Stages {
		metrics.RecordsProcessed.WithLabelValues(string(stage), "inserted").Add(float64(c.Inserted))
		metrics.RecordsProcessed.WithLabelValues(string(stage), "updated").Add(float64(c.Updated))
		metrics.RecordsProcessed.WithLabelValues(string(stage), "skipped").Add(float64(c.Skipped))
		metrics.RecordsProcessed.WithLabelValues(string(stage), "failed").Add(float64(c.Failed))
	}
	for _, recErr := range report.RecordErrors {
		metrics.RecordErrorsTotal.WithLabelValues(string(recErr.Kind)).Inc()
	}
	if !report.Committed {
		metrics.RollbacksTotal.Inc()
	}
}

// Stage 1: the league row itself.
func (l *Loader) loadLeague(ctx context.Context, tx pgx.Tx, st *loadState) error {
	name := st.batch.League.Name
	if name == "" {
		name = st.batch.League.Key
	}

	league := &models.League{LeagueKey: st.batch.League.Key, Name: name}
	inserted, err := l.db.Leagues.Upsert(ctx, tx, league)
	if err != nil {
		return err
	}

	st.leagueID = league.ID
	st.resolver.Register(transform.RefLeague, league.Name, league.ID)
	st.report.AddUpsert(StageLeagues, inserted)

	return nil
}

// Stage 2a: clubs referenced anywhere in the batch.
func (l *Loader) loadClubs(ctx context.Context, tx pgx.Tx, st *loadState) error {
	st.clubNames = collectClubNames(st.batch)

	for _, name := range st.clubNames {
		club := &models.Club{Name: name}
		inserted, err := l.db.Clubs.Upsert(ctx, tx, club)
		if err != nil {
			return err
		}
		st.resolver.Register(transform.RefClub, name, club.ID)
		st.report.AddUpsert(StageClubs, inserted)
	}

	return nil
}

// Stage 2b: series referenced anywhere in the batch.
func (l *Loader) loadSeries(ctx context.Context, tx pgx.Tx, st *loadState) error {
	st.seriesNames = collectSeriesNames(st.batch)

	for _, name := range st.seriesNames {
		series := &models.Series{Name: name}
		inserted, err := l.db.Series.Upsert(ctx, tx, series)
		if err != nil {
			return err
		}
		st.resolver.Register(transform.RefSeries, name, series.ID)
		// Team display names carry only the numeric suffix ("Club - 22"),
		// so alias the series under that token as well.
		if _, suffix := splitSeriesSuffix(name); suffix != "" {
			if _, ok := st.resolver.Resolve(transform.RefSeries, suffix); !ok {
				st.resolver.Register(transform.RefSeries, suffix, series.ID)
			}
		}
		st.report.AddUpsert(StageSeries, inserted)
	}

	return nil
}

// Stage 3: club/league and series/league junctions.
func (l *Loader) loadJunctions(ctx context.Context, tx pgx.Tx, st *loadState) error {
	for _, name := range st.clubNames {
		clubID, _ := st.resolver.Resolve(transform.RefClub, name)
		created, err := l.db.Clubs.LinkLeague(ctx, tx, clubID, st.leagueID)
		if err != nil {
			return err
		}
		if created {
			st.report.Count(StageJunctions).Inserted++
		} else {
			st.report.Skip(StageJunctions)
		}
	}

	for _, name := range st.seriesNames {
		seriesID, _ := st.resolver.Resolve(transform.RefSeries, name)
		created, err := l.db.Series.LinkLeague(ctx, tx, seriesID, st.leagueID)
		if err != nil {
			return err
		}
		if created {
			st.report.Count(StageJunctions).Inserted++
		} else {
			st.report.Skip(StageJunctions)
		}
	}

	return nil
}

// Stage 4: teams from roster and standings records.
func (l *Loader) loadTeams(ctx context.Context, tx pgx.Tx, st *loadState) error {
	type teamSpec struct {
		club   string
		series string
		name   string
	}

	var specs []teamSpec
	seen := make(map[string]struct{})
	add := func(spec teamSpec) {
		if spec.name == "" {
			return
		}
		key := spec.name
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		specs = append(specs, spec)
	}

	for _, p := range st.batch.Players {
		add(teamSpec{club: p.Club, series: p.Series, name: p.Team})
	}
	for _, s := range st.batch.Stats {
		club, _ := transform.SplitTeamName(s.Team)
		add(teamSpec{club: club, series: s.Series, name: s.Team})
	}

	for _, spec := range specs {
		clubID, err := st.resolver.MustResolve(transform.RefClub, spec.club, "team")
		if err != nil {
			st.report.Fail(StageTeams, err.(transform.RecordError))
			continue
		}
		seriesID, err := st.resolver.MustResolve(transform.RefSeries, spec.series, "team")
		if err != nil {
			st.report.Fail(StageTeams, err.(transform.RecordError))
			continue
		}

		team := &models.Team{
			ClubID:   clubID,
			SeriesID: seriesID,
			LeagueID: st.leagueID,
			Name:     spec.name,
		}
		inserted, err := l.db.Teams.Upsert(ctx, tx, team)
		if err != nil {
			return err
		}
		st.resolver.Register(transform.RefTeam, team.Name, team.ID)
		st.report.AddUpsert(StageTeams, inserted)
	}

	return nil
}

// Stage 5: players. Substitute-classified records never create roster rows;
// they are skipped here and attribute through the regular player's external
// ID in the match stage.
func (l *Loader) loadPlayers(ctx context.Context, tx pgx.Tx, st *loadState) error {
	for _, p := range st.batch.Players {
		if p.IsSubstitute {
			st.report.Skip(StagePlayers)
			continue
		}

		clubID, err := st.resolver.MustResolve(transform.RefClub, p.Club, "player")
		if err != nil {
			st.report.Fail(StagePlayers, err.(transform.RecordError))
			continue
		}
		seriesID, err := st.resolver.MustResolve(transform.RefSeries, p.Series, "player")
		if err != nil {
			st.report.Fail(StagePlayers, err.(transform.RecordError))
			continue
		}

		player := &models.Player{
			ExternalID: p.ExternalID,
			LeagueID:   st.leagueID,
			ClubID:     sql.NullInt32{Int32: int32(clubID), Valid: true},
			SeriesID:   sql.NullInt32{Int32: int32(seriesID), Valid: true},
			FirstName:  p.FirstName,
			LastName:   p.LastName,
		}
		if teamID, ok := st.resolver.Resolve(transform.RefTeam, p.Team); ok {
			player.TeamID = sql.NullInt32{Int32: int32(teamID), Valid: true}
		}
		if p.PTI != nil {
			player.PTI = sql.NullFloat64{Float64: *p.PTI, Valid: true}
		}

		inserted, err := l.db.Players.Upsert(ctx, tx, player)
		if err != nil {
			return err
		}
		st.report.AddUpsert(StagePlayers, inserted)
	}

	// Participant validation in the match stage checks against every roster
	// row visible in this transaction, including pre-existing players, so a
	// substitute appearance can reference a regular player imported in an
	// earlier cycle.
	known, err := l.db.Players.ListExternalIDs(ctx, tx, st.leagueID)
	if err != nil {
		return err
	}
	st.knownPlayers = known

	return nil
}

// Stage 6: matches. A match referencing an unknown participant is counted
// as a validation failure but still staged, so the integrity checker sees
// the dangling reference and vetoes the commit rather than the row being
// silently dropped.
func (l *Loader) loadMatches(ctx context.Context, tx pgx.Tx, st *loadState) error {
	for _, m := range st.batch.Matches {
		homeTeamID, err := l.resolveMatchTeam(ctx, tx, st, m.HomeTeam)
		if err != nil {
			st.report.Fail(StageMatches, err.(transform.RecordError))
			continue
		}
		awayTeamID, err := l.resolveMatchTeam(ctx, tx, st, m.AwayTeam)
		if err != nil {
			st.report.Fail(StageMatches, err.(transform.RecordError))
			continue
		}

		valid := true
		for _, pid := range []string{m.HomePlayer1ID, m.HomePlayer2ID, m.AwayPlayer1ID, m.AwayPlayer2ID} {
			if pid == "" {
				continue
			}
			if _, ok := st.knownPlayers[pid]; !ok {
				st.report.Fail(StageMatches, transform.RecordError{
					Kind:   transform.ErrKindUnknownPlayer,
					Entity: "match",
					Field:  "player_id",
					Value:  pid,
					Reason: "no roster row with this external ID",
				})
				valid = false
			}
		}

		match := &models.Match{
			LeagueID:    st.leagueID,
			MatchDate:   m.Date,
			HomeTeamID:  homeTeamID,
			AwayTeamID:  awayTeamID,
			Scores:      m.Scores,
			Winner:      nullString(m.Winner),
			HomePlayer1: nullString(m.HomePlayer1ID),
			HomePlayer2: nullString(m.HomePlayer2ID),
			AwayPlayer1: nullString(m.AwayPlayer1ID),
			AwayPlayer2: nullString(m.AwayPlayer2ID),
		}

		inserted, err := l.db.Matches.Upsert(ctx, tx, match)
		if err != nil {
			return err
		}
		if valid {
			st.report.AddUpsert(StageMatches, inserted)
		}
	}

	return nil
}

// Stage 7: series standings, replaced wholesale per series present in the
// batch. Series absent from the batch keep their previous standings.
func (l *Loader) loadSeriesStats(ctx context.Context, tx pgx.Tx, st *loadState) error {
	bySeries := make(map[string][]transform.StatsRecord)
	var order []string
	for _, s := range st.batch.Stats {
		if _, ok := bySeries[s.Series]; !ok {
			order = append(order, s.Series)
		}
		bySeries[s.Series] = append(bySeries[s.Series], s)
	}

	for _, seriesName := range order {
		seriesID, err := st.resolver.MustResolve(transform.RefSeries, seriesName, "series_stats")
		if err != nil {
			for range bySeries[seriesName] {
				st.report.Fail(StageSeriesStats, err.(transform.RecordError))
			}
			continue
		}

		deleted, err := l.db.SeriesStats.DeleteBySeries(ctx, tx, st.leagueID, seriesID)
		if err != nil {
			return err
		}
		log.Debug().
			Str("series", seriesName).
			Int("replaced", deleted).
			Msg("Series standings cleared for replace")

		for _, rec := range bySeries[seriesName] {
			teamID, err := l.resolveMatchTeam(ctx, tx, st, rec.Team)
			if err != nil {
				st.report.Fail(StageSeriesStats, err.(transform.RecordError))
				continue
			}

			stats := &models.SeriesStats{
				LeagueID:    st.leagueID,
				SeriesID:    seriesID,
				TeamID:      teamID,
				Points:      rec.Points,
				MatchesWon:  rec.MatchesWon,
				MatchesLost: rec.MatchesLost,
				MatchesTied: rec.MatchesTied,
			}
			if err := l.db.SeriesStats.Insert(ctx, tx, stats); err != nil {
				return err
			}
			st.report.Count(StageSeriesStats).Inserted++
		}
	}

	return nil
}

// resolveMatchTeam resolves a team display name, creating the team lazily
// when its club and series are already known from the batch.
func (l *Loader) resolveMatchTeam(ctx context.Context, tx pgx.Tx, st *loadState, name string) (int, error) {
	if id, ok := st.resolver.Resolve(transform.RefTeam, name); ok {
		return id, nil
	}

	club, suffix := transform.SplitTeamName(name)
	clubID, clubOK := st.resolver.Resolve(transform.RefClub, club)
	seriesID, seriesOK := st.resolver.Resolve(transform.RefSeries, suffix)
	if !clubOK || !seriesOK {
		return 0, transform.RecordError{
			Kind:   transform.ErrKindReferenceNotFound,
			Entity: "match",
			Field:  "team",
			Value:  name,
			Reason: "team is unknown and cannot be derived from its name",
		}
	}

	team := &models.Team{
		ClubID:   clubID,
		SeriesID: seriesID,
		LeagueID: st.leagueID,
		Name:     name,
	}
	inserted, err := l.db.Teams.Upsert(ctx, tx, team)
	if err != nil {
		return 0, transform.RecordError{
			Kind:   transform.ErrKindReferenceNotFound,
			Entity: "match",
			Field:  "team",
			Value:  name,
			Reason: err.Error(),
		}
	}
	st.resolver.Register(transform.RefTeam, team.Name, team.ID)
	st.report.AddUpsert(StageTeams, inserted)

	return team.ID, nil
}

// collectClubNames gathers distinct club names in first-appearance order.
func collectClubNames(batch *transform.Batch) []string {
	var names []string
	seen := make(map[string]struct{})
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, p := range batch.Players {
		add(p.Club)
	}
	for _, s := range batch.Stats {
		club, _ := transform.SplitTeamName(s.Team)
		add(club)
	}
	for _, m := range batch.Matches {
		for _, teamName := range []string{m.HomeTeam, m.AwayTeam} {
			club, suffix := transform.SplitTeamName(teamName)
			if suffix != "" {
				add(club)
			}
		}
	}

	return names
}

// collectSeriesNames gathers distinct series names in first-appearance order.
func collectSeriesNames(batch *transform.Batch) []string {
	var names []string
	seen := make(map[string]struct{})
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, p := range batch.Players {
		add(p.Series)
	}
	for _, s := range batch.Stats {
		add(s.Series)
	}

	return names
}

// splitSeriesSuffix returns the series name without its trailing token and
// the token itself ("Series 22" -> "Series", "22").
func splitSeriesSuffix(name string) (string, string) {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return name, ""
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
