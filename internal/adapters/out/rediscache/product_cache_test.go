package rediscache_test

import (
	"testing"

	"fulfillment/internal/adapters/out/rediscache"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProductCache_InvalidateReportsFailure(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	require.NoError(t, rdb.Close())
	cache := rediscache.NewProductCache(rdb, rediscache.Config{}, zap.NewNop())

	err := cache.Invalidate(t.Context(), "MUG")

	require.Error(t, err)
	assert.ErrorIs(t, err, redis.ErrClosed)
	assert.Contains(t, err.Error(), "MUG")
}

func TestProductCache_InvalidateNothing(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	require.NoError(t, rdb.Close())
	cache := rediscache.NewProductCache(rdb, rediscache.Config{}, zap.NewNop())

	assert.NoError(t, cache.Invalidate(t.Context()))
}
