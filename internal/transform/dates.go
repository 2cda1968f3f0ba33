package transform

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Two-digit years at or below the pivot land in the 2000s, the rest in the
// 1900s.
const twoDigitYearPivot = 49

// ParseDate parses the three date shapes the source site emits:
// "Month Day, Year", "MM/DD/YYYY" or "MM/DD/YY", and "YYYY-MM-DD". Each
// matcher is explicit and a non-matching input is a hard failure. There is
// deliberately no fallback value: a sentinel date poisons chronological
// ordering downstream, so the record fails instead.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, RecordError{
			Kind:   ErrKindDateParse,
			Field:  "date",
			Value:  raw,
			Reason: "empty date",
		}
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}

	if t, err := time.Parse("January 2, 2006", s); err == nil {
		return t, nil
	}

	if t, ok := parseSlashDate(s); ok {
		return t, nil
	}

	return time.Time{}, RecordError{
		Kind:   ErrKindDateParse,
		Field:  "date",
		Value:  raw,
		Reason: "no known date format matched",
	}
}

// parseSlashDate handles MM/DD/YYYY and MM/DD/YY. Two-digit years are
// disambiguated with a fixed pivot rather than Go's default 69 cutoff.
func parseSlashDate(s string) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, false
	}

	yearStr := strings.TrimSpace(parts[2])
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}

	switch len(yearStr) {
	case 2:
		if year <= twoDigitYearPivot {
			year += 2000
		} else {
			year += 1900
		}
	case 4:
		// keep as-is
	default:
		return time.Time{}, false
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	// time.Date normalizes out-of-range days (Feb 30 -> Mar 2); reject those
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}

	return t, true
}

// mustParseDate is a test helper used by package examples; it panics on bad
// input.
func mustParseDate(raw string) time.Time {
	t, err := ParseDate(raw)
	if err != nil {
		panic(fmt.Sprintf("mustParseDate(%q): %v", raw, err))
	}
	return t
}
