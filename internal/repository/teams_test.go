//go:build integration

package repository

import (
	"errors"
	"testing"

	"ticketsync/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTeamRepository_CreateAndGet(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	team := &models.Team{Name: "Kansas City Chiefs", City: strPtr("Kansas City"), State: strPtr("MO")}
	require.NoError(t, db.Teams.Create(ctx, team), "Should insert team")
	assert.NotZero(t, team.ID)

	retrieved, err := db.Teams.GetByName(ctx, "Kansas City Chiefs")
	require.NoError(t, err)
	assert.Equal(t, team.ID, retrieved.ID)
	require.NotNil(t, retrieved.City)
	assert.Equal(t, "Kansas City", *retrieved.City)
	assert.Nil(t, retrieved.Country)
}

func TestTeamRepository_GetByNameNotFound(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Teams.GetByName(ctx, "Nobody")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReferenceLists(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	for _, name := range []string{"Buffalo Bills", "Arizona Cardinals"} {
		require.NoError(t, db.Teams.Create(ctx, &models.Team{Name: name}))
	}
	require.NoError(t, db.Stadiums.Create(ctx, &models.Stadium{Name: "Highmark Stadium", Timezone: strPtr("America/New_York")}))
	require.NoError(t, db.Vendors.Create(ctx, &models.TicketVendor{Name: "Ticketmaster"}))

	teams, err := db.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Arizona Cardinals", teams[0].Name, "Teams should be ordered by name")

	stadiums, err := db.ListStadiums(ctx)
	require.NoError(t, err)
	require.Len(t, stadiums, 1)
	assert.Equal(t, "America/New_York", *stadiums[0].Timezone)

	vendors, err := db.ListVendors(ctx)
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	assert.Equal(t, "Ticketmaster", vendors[0].Name)
}
