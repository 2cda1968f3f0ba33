package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_CaseAndWhitespaceInsensitive(t *testing.T) {
	r := NewResolver()
	r.Register(RefClub, "Tennaqua", 7)
	r.Register(RefSeries, "Series 22", 3)

	for _, name := range []string{"Tennaqua", "tennaqua", "TENNAQUA", "  Tennaqua  "} {
		id, ok := r.Resolve(RefClub, name)
		require.True(t, ok, "Should resolve %q", name)
		assert.Equal(t, 7, id)
	}

	id, ok := r.Resolve(RefSeries, "series   22")
	require.True(t, ok)
	assert.Equal(t, 3, id)
}

func TestResolver_KindsAreIsolated(t *testing.T) {
	r := NewResolver()
	r.Register(RefClub, "Tennaqua", 7)

	_, ok := r.Resolve(RefSeries, "Tennaqua")
	assert.False(t, ok, "A club name must not resolve as a series")
}

func TestResolver_MustResolveReturnsRecordError(t *testing.T) {
	r := NewResolver()

	_, err := r.MustResolve(RefTeam, "Nowhere - 9", "match")
	require.Error(t, err)

	var recErr RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, ErrKindReferenceNotFound, recErr.Kind)
	assert.Equal(t, "match", recErr.Entity)
	assert.Equal(t, RefTeam, recErr.Field)
	assert.Equal(t, "Nowhere - 9", recErr.Value)
}

func TestResolver_EmptyNameNeverRegisters(t *testing.T) {
	r := NewResolver()
	r.Register(RefClub, "   ", 1)

	_, ok := r.Resolve(RefClub, "")
	assert.False(t, ok)
}
