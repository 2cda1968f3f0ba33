package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlayerName(t *testing.T) {
	tests := []struct {
		raw   string
		clean string
		isSub bool
	}{
		{"Jane Doe", "Jane Doe", false},
		{"Jane Doe(S)", "Jane Doe", true},
		{"Jane Doe (S)", "Jane Doe", true},
		{"Jane Doe(s)", "Jane Doe", true},
		{"Jane Doe(Sub)", "Jane Doe", true},
		{"Jane Doe(S↑)", "Jane Doe", true},
		{"  Jane Doe  ", "Jane Doe", false},
		{"Samson", "Samson", false},
		{"", "", false},
	}

	for _, tt := range tests {
		clean, isSub := NormalizePlayerName(tt.raw)
		assert.Equal(t, tt.clean, clean, "Wrong clean name for %q", tt.raw)
		assert.Equal(t, tt.isSub, isSub, "Wrong substitute flag for %q", tt.raw)
	}
}

func TestSplitTeamName(t *testing.T) {
	tests := []struct {
		raw    string
		club   string
		suffix string
	}{
		{"Tennaqua - 22", "Tennaqua", "22"},
		{"Lake Bluff - 4", "Lake Bluff", "4"},
		{"Glen View", "Glen View", ""},
		{"North Shore - A - 2", "North Shore - A", "2"},
		{"  Winnetka - 9  ", "Winnetka", "9"},
	}

	for _, tt := range tests {
		club, suffix := SplitTeamName(tt.raw)
		assert.Equal(t, tt.club, club, "Wrong club for %q", tt.raw)
		assert.Equal(t, tt.suffix, suffix, "Wrong suffix for %q", tt.raw)
	}
}
