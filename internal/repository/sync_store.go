package repository

import (
	"context"

	"ticketsync/ingestion/internal/models"

	"github.com/google/uuid"
)

// The methods below let *Database serve directly as the sync engine's store.

// ListTeams returns every known team
func (db *Database) ListTeams(ctx context.Context) ([]models.Team, error) {
	return db.Teams.List(ctx)
}

// ListStadiums returns every known stadium
func (db *Database) ListStadiums(ctx context.Context) ([]models.Stadium, error) {
	return db.Stadiums.List(ctx)
}

// ListVendors returns every known ticket vendor
func (db *Database) ListVendors(ctx context.Context) ([]models.TicketVendor, error) {
	return db.Vendors.List(ctx)
}

// FindByEventID returns the game synced from eventID, or ErrNotFound
func (db *Database) FindByEventID(ctx context.Context, eventID string) (*models.Game, error) {
	return db.Games.GetByEventID(ctx, eventID)
}

// SaveGame upserts game and its team links atomically
func (db *Database) SaveGame(ctx context.Context, game *models.Game, teamIDs []uuid.UUID) error {
	return db.Games.Save(ctx, game, teamIDs)
}

// QueryGames returns games matching filter
func (db *Database) QueryGames(ctx context.Context, filter models.GameFilter) ([]models.GameQueryResult, error) {
	return db.Games.Query(ctx, filter)
}
