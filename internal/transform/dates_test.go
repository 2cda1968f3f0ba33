package transform

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_AllFormatsAgree(t *testing.T) {
	// The same calendar date in every supported shape must parse to the
	// same value
	want := time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{
		"October 15, 2025",
		"10/15/2025",
		"10/15/25",
		"2025-10-15",
	} {
		got, err := ParseDate(raw)
		require.NoError(t, err, "Should parse %q", raw)
		assert.True(t, want.Equal(got), "Expected %s for %q, got %s", want, raw, got)
	}
}

func TestParseDate_TwoDigitYearPivot(t *testing.T) {
	tests := []struct {
		raw  string
		year int
	}{
		{"01/05/49", 2049},
		{"01/05/50", 1950},
		{"01/05/00", 2000},
		{"01/05/99", 1999},
		{"01/05/25", 2025},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.raw)
		require.NoError(t, err, "Should parse %q", tt.raw)
		assert.Equal(t, tt.year, got.Year(), "Wrong pivot for %q", tt.raw)
	}
}

func TestParseDate_RejectsUnknownShapes(t *testing.T) {
	for _, raw := range []string{
		"",
		"Unknown Date",
		"15 October 2025",
		"10-15-2025",
		"2025/10/15",
		"13/40/2025",
		"02/30/2025",
		"10/15/202",
	} {
		_, err := ParseDate(raw)
		require.Error(t, err, "Should reject %q", raw)

		var recErr RecordError
		require.True(t, errors.As(err, &recErr), "Error for %q should be a RecordError", raw)
		assert.Equal(t, ErrKindDateParse, recErr.Kind)
	}
}

func TestParseDate_NoSentinelFallback(t *testing.T) {
	// A failed parse must never come back as a usable zero-ish date
	got, err := ParseDate("not a date")
	require.Error(t, err)
	assert.True(t, got.IsZero(), "Failed parse must return the zero time, not a placeholder")
}

func TestParseDate_TrimsWhitespace(t *testing.T) {
	got, err := ParseDate("  2025-10-15  ")
	require.NoError(t, err)
	assert.Equal(t, mustParseDate("October 15, 2025"), got)
}
