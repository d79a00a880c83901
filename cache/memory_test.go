package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient_GetSetDel(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()

	_, err := c.Get(ctx, "missing").Result()
	assert.ErrorIs(t, err, redis.Nil)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0).Err())
	val, err := c.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", val)
	assert.Equal(t, time.Duration(-1), c.TTL("k"))

	n, err := c.Del(ctx, "k", "other").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, time.Duration(-2), c.TTL("k"))
}

func TestMemoryClient_Expiration(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryClient()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, RefreshTokenKey("u1"), "token", time.Minute).Err())
	assert.Equal(t, time.Minute, c.TTL(RefreshTokenKey("u1")))

	now = now.Add(2 * time.Minute)
	_, err := c.Get(ctx, RefreshTokenKey("u1")).Result()
	assert.ErrorIs(t, err, redis.Nil)
}
