package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsoumyadip/tb-update-handles/internal/ingest"
)

func setupRedis(t *testing.T) (*RedisCollection, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	c, err := NewRedis("redis://"+mr.Addr(), "tb-handles")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.Close()
		mr.Close()
	})
	return c, mr
}

func TestRedisCollection_SetGet(t *testing.T) {
	c, mr := setupRedis(t)
	ctx := context.Background()
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, c.Set(ctx, "alice", map[string]any{"username": "alice", "location": "old", "last_updated": ts}))
	require.NoError(t, c.Set(ctx, "alice", map[string]any{"username": "alice", "last_updated": ts}))

	assert.True(t, mr.Exists("tb-handles:alice"))
	doc, err := c.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", doc["username"])
	assert.Equal(t, "2025-01-02T03:04:05Z", doc["last_updated"])
	_, stale := doc["location"]
	assert.False(t, stale)
}

func TestRedisCollection_GetMissing(t *testing.T) {
	c, _ := setupRedis(t)
	_, err := c.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ingest.ErrProfileNotFound)
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis("not-a-url", "tb-handles")
	assert.Error(t, err)
}
