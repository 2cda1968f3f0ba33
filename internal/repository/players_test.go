package repository

import (
	"database/sql"
	"testing"

	"ptl/importer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerUpsert_InsertThenUpdate(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	fx := seedFixture(t, ctx, db)

	player := &models.Player{
		ExternalID: "nndz-test-" + fx.Suffix,
		LeagueID:   fx.League.ID,
		ClubID:     sql.NullInt32{Int32: int32(fx.Club.ID), Valid: true},
		SeriesID:   sql.NullInt32{Int32: int32(fx.Series.ID), Valid: true},
		TeamID:     sql.NullInt32{Int32: int32(fx.Team.ID), Valid: true},
		FirstName:  "Jane",
		LastName:   "Doe",
		PTI:        sql.NullFloat64{Float64: 31.5, Valid: true},
	}

	inserted, err := db.Players.Upsert(ctx, db.Pool, player)
	require.NoError(t, err)
	assert.True(t, inserted, "First upsert should insert")
	assert.NotZero(t, player.ID)
	assert.True(t, player.IsActive)

	// starting_pti snapshots the first-seen rating
	require.True(t, player.StartingPTI.Valid)
	assert.InDelta(t, 31.5, player.StartingPTI.Float64, 0.001)

	firstID := player.ID

	// Second upsert with a new rating updates in place
	player.PTI = sql.NullFloat64{Float64: 28.2, Valid: true}
	player.LastName = "Doe-Smith"

	inserted, err = db.Players.Upsert(ctx, db.Pool, player)
	require.NoError(t, err)
	assert.False(t, inserted, "Second upsert should update")
	assert.Equal(t, firstID, player.ID, "Upsert must not create a second row")

	got, err := db.Players.GetByExternalID(ctx, db.Pool, fx.League.ID, player.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, "Doe-Smith", got.LastName)
	assert.InDelta(t, 28.2, got.PTI.Float64, 0.001)

	// starting_pti keeps its original value across updates
	require.True(t, got.StartingPTI.Valid)
	assert.InDelta(t, 31.5, got.StartingPTI.Float64, 0.001)
}

func TestPlayerUpsert_ReactivatesInactiveRow(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	fx := seedFixture(t, ctx, db)

	player := &models.Player{
		ExternalID: "nndz-react-" + fx.Suffix,
		LeagueID:   fx.League.ID,
		FirstName:  "John",
		LastName:   "Roe",
	}

	_, err := db.Players.Upsert(ctx, db.Pool, player)
	require.NoError(t, err)

	require.NoError(t, db.Players.Deactivate(ctx, db.Pool, fx.League.ID, player.ExternalID))

	got, err := db.Players.GetByExternalID(ctx, db.Pool, fx.League.ID, player.ExternalID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	// Reappearing in an import flips the flag back on
	inserted, err := db.Players.Upsert(ctx, db.Pool, player)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.True(t, player.IsActive, "Upsert should reactivate a deactivated player")
}

func TestPlayerListExternalIDs_ScopedToLeague(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	fx := seedFixture(t, ctx, db)
	other := seedFixture(t, ctx, db)

	p1 := &models.Player{ExternalID: "nndz-a-" + fx.Suffix, LeagueID: fx.League.ID, FirstName: "A", LastName: "One"}
	p2 := &models.Player{ExternalID: "nndz-b-" + fx.Suffix, LeagueID: fx.League.ID, FirstName: "B", LastName: "Two"}
	p3 := &models.Player{ExternalID: "nndz-c-" + other.Suffix, LeagueID: other.League.ID, FirstName: "C", LastName: "Three"}

	for _, p := range []*models.Player{p1, p2, p3} {
		_, err := db.Players.Upsert(ctx, db.Pool, p)
		require.NoError(t, err)
	}

	ids, err := db.Players.ListExternalIDs(ctx, db.Pool, fx.League.ID)
	require.NoError(t, err)

	assert.Contains(t, ids, p1.ExternalID)
	assert.Contains(t, ids, p2.ExternalID)
	assert.NotContains(t, ids, p3.ExternalID, "IDs from another league must not leak")
}
