//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: go test -v -tags=integration ./internal/cache/...

func setupTestCache(t *testing.T) *RedisCache {
	host := os.Getenv("TEST_REDIS_HOST")
	if host == "" {
		host = "localhost"
	}

	c, err := NewRedisCache(Config{Addr: host + ":6379", DB: 15})
	require.NoError(t, err, "Failed to connect to test redis")
	t.Cleanup(func() { _ = c.Close() })
	return c
}

type entry struct {
	Name  string   `json:"name"`
	Teams []string `json:"teams"`
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()
	defer c.Delete(ctx, "test:entry")

	in := entry{Name: "week 1", Teams: []string{"Chiefs", "Ravens"}}
	require.NoError(t, c.SetJSON(ctx, "test:entry", in, time.Minute))

	var out entry
	hit, err := c.GetJSON(ctx, "test:entry", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, in, out)
}

func TestRedisCache_MissAndDelete(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	var out entry
	hit, err := c.GetJSON(ctx, "test:absent", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.SetJSON(ctx, "test:gone", entry{Name: "x"}, time.Minute))
	require.NoError(t, c.Delete(ctx, "test:gone"))

	hit, err = c.GetJSON(ctx, "test:gone", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_Expiry(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "test:short", entry{Name: "x"}, 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)

	var out entry
	hit, err := c.GetJSON(ctx, "test:short", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_Health(t *testing.T) {
	c := setupTestCache(t)
	assert.NoError(t, c.Health(context.Background()))
}
