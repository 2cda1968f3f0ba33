package transform

import "strings"

// Substitute markers the source site appends to display names. The set is
// fixed; matching is case-insensitive on the trailing token.
var substituteSuffixes = []string{
	"(s)",
	"(s↑)",
	"(sub)",
}

// NormalizePlayerName strips any known substitute suffix from a display name
// and reports whether the original marked a substitute appearance.
// Substitute-classified records never create roster rows; their match
// appearances attribute to the existing regular player via the external ID.
func NormalizePlayerName(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	lower := strings.ToLower(name)

	for _, suffix := range substituteSuffixes {
		if strings.HasSuffix(lower, suffix) {
			clean := strings.TrimSpace(name[:len(name)-len(suffix)])
			return clean, true
		}
	}

	return name, false
}

// SplitTeamName splits a "Club - NN" display name into its club prefix and
// series suffix. Names without the separator come back whole with an empty
// suffix.
func SplitTeamName(name string) (club, suffix string) {
	name = strings.TrimSpace(name)

	idx := strings.LastIndex(name, " - ")
	if idx < 0 {
		return name, ""
	}

	return strings.TrimSpace(name[:idx]), strings.TrimSpace(name[idx+3:])
}
