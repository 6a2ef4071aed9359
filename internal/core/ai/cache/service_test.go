package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisService(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(ctx).Err())

	prefix := "mp-test-" + common.GenerateUUID()
	t.Cleanup(func() {
		keys, err := client.Keys(ctx, prefix+":*").Result()
		if err == nil && len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		_ = client.Close()
	})

	s := NewService(client, &config.CacheConfig{TTL: time.Minute}, prefix)

	_, err := s.Get(ctx, "prompt")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "prompt", "reply"))
	got, err := s.Get(ctx, "prompt")
	require.NoError(t, err)
	assert.Equal(t, "reply", got)

	ttl, err := client.TTL(ctx, s.generateKey("prompt")).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	stats := s.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}
