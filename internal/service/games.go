package service

import (
	"context"
	"net/http"
	"time"

	"ticketsync/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

const (
	teamsCacheKey    = "teams:all"
	stadiumsCacheKey = "stadiums:all"

	DefaultCacheTTL = time.Hour
)

// GameStore is the read side of the game catalog
type GameStore interface {
	QueryGames(ctx context.Context, filter models.GameFilter) ([]models.GameQueryResult, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	ListStadiums(ctx context.Context) ([]models.Stadium, error)
}

// Cache stores JSON values with a TTL
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// GameService serves game, team and stadium queries. Team and stadium lists
// are read through the cache when one is configured.
type GameService struct {
	store GameStore
	cache Cache
	ttl   time.Duration
}

// NewGameService creates the service. cache may be nil.
func NewGameService(store GameStore, cache Cache, ttl time.Duration) *GameService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &GameService{store: store, cache: cache, ttl: ttl}
}

// GetGames returns games matching filter
func (s *GameService) GetGames(ctx context.Context, filter models.GameFilter) *ServiceResponse {
	games, err := s.store.QueryGames(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query games")
		return Failure("Error retrieving games", nil, http.StatusInternalServerError)
	}

	if len(games) == 0 {
		return Success("No games found", games, http.StatusOK)
	}
	return Success("Games found", games, http.StatusOK)
}

// GetTeams returns every team
func (s *GameService) GetTeams(ctx context.Context) *ServiceResponse {
	var teams []models.Team
	err := s.readThrough(ctx, teamsCacheKey, &teams, func() (interface{}, error) {
		var err error
		teams, err = s.store.ListTeams(ctx)
		return teams, err
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to list teams")
		return Failure("Error retrieving teams", nil, http.StatusInternalServerError)
	}
	return Success("Teams found", teams, http.StatusOK)
}

// GetStadiums returns every stadium
func (s *GameService) GetStadiums(ctx context.Context) *ServiceResponse {
	var stadiums []models.Stadium
	err := s.readThrough(ctx, stadiumsCacheKey, &stadiums, func() (interface{}, error) {
		var err error
		stadiums, err = s.store.ListStadiums(ctx)
		return stadiums, err
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to list stadiums")
		return Failure("Error retrieving stadiums", nil, http.StatusInternalServerError)
	}
	return Success("Stadiums found", stadiums, http.StatusOK)
}

// readThrough fills dest from the cache, or from load on a miss. Cache
// failures fall back to load and are never returned.
func (s *GameService) readThrough(ctx context.Context, key string, dest interface{}, load func() (interface{}, error)) error {
	if s.cache != nil {
		hit, err := s.cache.GetJSON(ctx, key, dest)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Cache read failed, falling back to database")
		}
		if hit {
			return nil
		}
	}

	value, err := load()
	if err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, value, s.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		}
	}
	return nil
}
