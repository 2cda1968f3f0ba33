package transform

import "strings"

// Reference kinds the resolver tracks.
const (
	RefLeague = "league"
	RefClub   = "club"
	RefSeries = "series"
	RefTeam   = "team"
)

// Resolver maps display names to canonical database IDs. Lookups are
// case-insensitive and whitespace-trimmed because the scraped site is not
// consistent about either. The loader populates it stage by stage as rows
// become visible inside its transaction; there is no process-wide cache.
type Resolver struct {
	refs map[string]map[string]int
}

// NewResolver creates an empty resolver
func NewResolver() *Resolver {
	return &Resolver{refs: make(map[string]map[string]int)}
}

// Register records a name-to-ID mapping for a reference kind
func (r *Resolver) Register(kind, name string, id int) {
	key := normalizeKey(name)
	if key == "" {
		return
	}

	if r.refs[kind] == nil {
		r.refs[kind] = make(map[string]int)
	}
	r.refs[kind][key] = id
}

// Resolve returns the canonical ID for a display name, or false when no
// mapping exists
func (r *Resolver) Resolve(kind, name string) (int, bool) {
	id, ok := r.refs[kind][normalizeKey(name)]
	return id, ok
}

// MustResolve is like Resolve but returns a typed RecordError describing the
// missing reference
func (r *Resolver) MustResolve(kind, name, entity string) (int, error) {
	id, ok := r.Resolve(kind, name)
	if !ok {
		return 0, RecordError{
			Kind:   ErrKindReferenceNotFound,
			Entity: entity,
			Field:  kind,
			Value:  name,
			Reason: "no " + kind + " with this name",
		}
	}
	return id, nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
