package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"ticketsync/ingestion/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	games      []models.GameQueryResult
	teams      []models.Team
	stadiums   []models.Stadium
	err        error
	lastFilter models.GameFilter
	teamLoads  int
}

func (f *fakeStore) QueryGames(ctx context.Context, filter models.GameFilter) ([]models.GameQueryResult, error) {
	f.lastFilter = filter
	return f.games, f.err
}

func (f *fakeStore) ListTeams(ctx context.Context) ([]models.Team, error) {
	f.teamLoads++
	return f.teams, f.err
}

func (f *fakeStore) ListStadiums(ctx context.Context) ([]models.Stadium, error) {
	return f.stadiums, f.err
}

// memCache stores JSON the way the redis cache does
type memCache struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	readErr error
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c.readErr != nil {
		return false, c.readErr
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.ttls[key] = ttl
	return nil
}

func TestGameService_GetGames(t *testing.T) {
	store := &fakeStore{games: []models.GameQueryResult{{ID: uuid.New(), Name: "Bills at Chiefs", TeamNames: []string{"Buffalo Bills", "Kansas City Chiefs"}}}}
	svc := NewGameService(store, nil, 0)

	filter := models.GameFilter{Status: models.StatusOnsale}
	resp := svc.GetGames(context.Background(), filter)

	assert.True(t, resp.Success)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Games found", resp.Message)
	assert.Equal(t, store.games, resp.ResponseObject)
	assert.Equal(t, filter, store.lastFilter)
}

func TestGameService_GetGamesEmpty(t *testing.T) {
	svc := NewGameService(&fakeStore{games: []models.GameQueryResult{}}, nil, 0)

	resp := svc.GetGames(context.Background(), models.GameFilter{})
	assert.True(t, resp.Success)
	assert.Equal(t, "No games found", resp.Message)
}

func TestGameService_GetGamesError(t *testing.T) {
	svc := NewGameService(&fakeStore{err: errors.New("connection refused")}, nil, 0)

	resp := svc.GetGames(context.Background(), models.GameFilter{})
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Nil(t, resp.ResponseObject)
}

func TestGameService_TeamsAreCached(t *testing.T) {
	store := &fakeStore{teams: []models.Team{{ID: uuid.New(), Name: "Kansas City Chiefs"}}}
	cache := newMemCache()
	svc := NewGameService(store, cache, 10*time.Minute)

	first := svc.GetTeams(context.Background())
	second := svc.GetTeams(context.Background())

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.Equal(t, 1, store.teamLoads, "second call should be served from cache")
	assert.Equal(t, 10*time.Minute, cache.ttls[teamsCacheKey])

	teams, ok := second.ResponseObject.([]models.Team)
	require.True(t, ok)
	require.Len(t, teams, 1)
	assert.Equal(t, store.teams[0].ID, teams[0].ID)
}

func TestGameService_CacheFailureFallsBack(t *testing.T) {
	store := &fakeStore{teams: []models.Team{{ID: uuid.New(), Name: "Buffalo Bills"}}}
	cache := newMemCache()
	cache.readErr = errors.New("redis down")
	svc := NewGameService(store, cache, 0)

	resp := svc.GetTeams(context.Background())
	assert.True(t, resp.Success)
	assert.Equal(t, 1, store.teamLoads)
	assert.Equal(t, DefaultCacheTTL, cache.ttls[teamsCacheKey])
}

func TestGameService_GetStadiums(t *testing.T) {
	tz := "America/Chicago"
	store := &fakeStore{stadiums: []models.Stadium{{ID: uuid.New(), Name: "Arrowhead Stadium", Timezone: &tz}}}
	cache := newMemCache()
	svc := NewGameService(store, cache, 0)

	resp := svc.GetStadiums(context.Background())
	require.True(t, resp.Success)
	assert.Contains(t, cache.data, stadiumsCacheKey)

	cached := svc.GetStadiums(context.Background())
	stadiums := cached.ResponseObject.([]models.Stadium)
	require.Len(t, stadiums, 1)
	assert.Equal(t, "America/Chicago", *stadiums[0].Timezone)
}

func TestGameService_GetStadiumsError(t *testing.T) {
	svc := NewGameService(&fakeStore{err: errors.New("timeout")}, newMemCache(), 0)

	resp := svc.GetStadiums(context.Background())
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
