package transform

import (
	"strconv"
	"strings"
	"time"

	"ptl/importer/internal/models"

	"github.com/rs/zerolog/log"
)

// LeagueMeta identifies the league a batch belongs to.
type LeagueMeta struct {
	Key  string
	Name string
}

// PlayerRecord is a validated roster record ready for the loader. Reference
// fields are still names; the loader resolves them to IDs inside its
// transaction.
type PlayerRecord struct {
	ExternalID   string
	FirstName    string
	LastName     string
	Club         string
	Series       string
	Team         string
	PTI          *float64
	IsSubstitute bool
}

// MatchRecord is a validated match-history record ready for the loader.
type MatchRecord struct {
	Date          time.Time
	HomeTeam      string
	AwayTeam      string
	Scores        string
	Winner        string
	HomePlayer1ID string
	HomePlayer2ID string
	AwayPlayer1ID string
	AwayPlayer2ID string
}

// StatsRecord is a validated standings record ready for the loader.
type StatsRecord struct {
	Series      string
	Team        string
	Points      int
	MatchesWon  int
	MatchesLost int
	MatchesTied int
}

// Batch is one complete set of records produced by a single extractor run,
// processed together by one loader transaction.
type Batch struct {
	League  LeagueMeta
	Players []PlayerRecord
	Matches []MatchRecord
	Stats   []StatsRecord
	Errors  []RecordError
}

// Transformer converts raw scraped records into typed, validated batch
// records. Malformed records are rejected here, before they can corrupt a
// transaction mid-flight; each rejection is a counted RecordError, never an
// aborted batch.
type Transformer struct{}

// NewTransformer creates a Transformer
func NewTransformer() *Transformer {
	return &Transformer{}
}

// BuildBatch validates and normalizes one league's raw records
func (t *Transformer) BuildBatch(
	league LeagueMeta,
	players []models.PlayerInput,
	matches []models.MatchInput,
	stats []models.SeriesStatsInput,
) *Batch {
	batch := &Batch{League: league}

	for _, in := range players {
		rec, errs := t.transformPlayer(in)
		if len(errs) > 0 {
			batch.Errors = append(batch.Errors, errs...)
			continue
		}
		batch.Players = append(batch.Players, rec)
	}

	for _, in := range matches {
		rec, errs := t.transformMatch(in)
		if len(errs) > 0 {
			batch.Errors = append(batch.Errors, errs...)
			continue
		}
		batch.Matches = append(batch.Matches, rec)
	}

	for _, in := range stats {
		rec, errs := t.transformStats(in)
		if len(errs) > 0 {
			batch.Errors = append(batch.Errors, errs...)
			continue
		}
		batch.Stats = append(batch.Stats, rec)
	}

	log.Info().
		Str("league", league.Key).
		Int("players", len(batch.Players)).
		Int("matches", len(batch.Matches)).
		Int("series_stats", len(batch.Stats)).
		Int("rejected", len(batch.Errors)).
		Msg("Batch transformed")

	return batch
}

func (t *Transformer) transformPlayer(in models.PlayerInput) (PlayerRecord, []RecordError) {
	var errs []RecordError

	for field, value := range map[string]string{
		"Player ID": in.PlayerID,
		"Club":      in.Club,
		"Series":    in.Series,
	} {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, RecordError{
				Kind:   ErrKindMissingField,
				Entity: "player",
				Field:  field,
				Value:  value,
				Reason: "required field is empty",
			})
		}
	}
	if strings.TrimSpace(in.FirstName) == "" && strings.TrimSpace(in.LastName) == "" {
		errs = append(errs, RecordError{
			Kind:   ErrKindMissingField,
			Entity: "player",
			Field:  "First Name/Last Name",
			Reason: "player has no name",
		})
	}
	if len(errs) > 0 {
		return PlayerRecord{}, errs
	}

	firstName, subFirst := NormalizePlayerName(in.FirstName)
	lastName, subLast := NormalizePlayerName(in.LastName)

	rec := PlayerRecord{
		ExternalID:   strings.TrimSpace(in.PlayerID),
		FirstName:    firstName,
		LastName:     lastName,
		Club:         strings.TrimSpace(in.Club),
		Series:       strings.TrimSpace(in.Series),
		Team:         strings.TrimSpace(in.Team),
		IsSubstitute: subFirst || subLast,
	}

	if rec.Team == "" {
		rec.Team = defaultTeamName(rec.Club, rec.Series)
	}

	// "N/A" and blanks are common; an unparseable rating is absent, not an
	// error
	if raw := strings.TrimSpace(in.PTI); raw != "" {
		if pti, err := strconv.ParseFloat(raw, 64); err == nil {
			rec.PTI = &pti
		}
	}

	return rec, nil
}

func (t *Transformer) transformMatch(in models.MatchInput) (MatchRecord, []RecordError) {
	var errs []RecordError

	date, err := ParseDate(in.Date)
	if err != nil {
		recErr, ok := err.(RecordError)
		if !ok {
			recErr = RecordError{Kind: ErrKindDateParse, Field: "Date", Value: in.Date, Reason: err.Error()}
		}
		recErr.Entity = "match"
		errs = append(errs, recErr)
	}

	for field, value := range map[string]string{
		"Home Team": in.HomeTeam,
		"Away Team": in.AwayTeam,
		"Scores":    in.Scores,
	} {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, RecordError{
				Kind:   ErrKindMissingField,
				Entity: "match",
				Field:  field,
				Value:  value,
				Reason: "required field is empty",
			})
		}
	}
	if len(errs) > 0 {
		return MatchRecord{}, errs
	}

	return MatchRecord{
		Date:          date,
		HomeTeam:      strings.TrimSpace(in.HomeTeam),
		AwayTeam:      strings.TrimSpace(in.AwayTeam),
		Scores:        normalizeScores(in.Scores),
		Winner:        strings.ToLower(strings.TrimSpace(in.Winner)),
		HomePlayer1ID: strings.TrimSpace(in.HomePlayer1ID),
		HomePlayer2ID: strings.TrimSpace(in.HomePlayer2ID),
		AwayPlayer1ID: strings.TrimSpace(in.AwayPlayer1ID),
		AwayPlayer2ID: strings.TrimSpace(in.AwayPlayer2ID),
	}, nil
}

func (t *Transformer) transformStats(in models.SeriesStatsInput) (StatsRecord, []RecordError) {
	var errs []RecordError

	for field, value := range map[string]string{
		"Series": in.Series,
		"Team":   in.Team,
	} {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, RecordError{
				Kind:   ErrKindMissingField,
				Entity: "series_stats",
				Field:  field,
				Value:  value,
				Reason: "required field is empty",
			})
		}
	}
	if len(errs) > 0 {
		return StatsRecord{}, errs
	}

	return StatsRecord{
		Series:      strings.TrimSpace(in.Series),
		Team:        strings.TrimSpace(in.Team),
		Points:      in.Points,
		MatchesWon:  in.MatchesWon,
		MatchesLost: in.MatchesLost,
		MatchesTied: in.MatchesTied,
	}, nil
}

// normalizeScores canonicalizes set-score strings so the match natural key
// is stable across re-scrapes ("6-2, 6-3" and "6-2,6-3" are the same match).
func normalizeScores(raw string) string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// defaultTeamName derives a team display name when the source omits one.
// Series names end in the number the site uses in team names ("Series 22"
// -> "Club - 22").
func defaultTeamName(club, series string) string {
	fields := strings.Fields(series)
	if len(fields) == 0 {
		return club
	}
	return club + " - " + fields[len(fields)-1]
}
