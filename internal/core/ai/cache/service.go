package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// Service Redis 緩存服務，多個實例可共用快取
type Service struct {
	client *redis.Client
	config *config.CacheConfig
	prefix string
	hits   int64
	misses int64
}

var _ Cache = (*Service)(nil)

// NewService 創建緩存服務，client 由呼叫者建立並負責關閉
func NewService(client *redis.Client, cfg *config.CacheConfig, prefix string) *Service {
	if prefix == "" {
		prefix = "mp"
	}
	return &Service{
		client: client,
		config: cfg,
		prefix: prefix,
	}
}

// Get 獲取緩存
func (s *Service) Get(ctx context.Context, prompt string) (string, error) {
	value, err := s.client.Get(ctx, s.generateKey(prompt)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			atomic.AddInt64(&s.misses, 1)
			common.LogCacheMiss("redis")
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	atomic.AddInt64(&s.hits, 1)
	common.LogCacheHit("redis")
	return value, nil
}

// Set 設置緩存
func (s *Service) Set(ctx context.Context, prompt, value string) error {
	if err := s.client.Set(ctx, s.generateKey(prompt), value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// GetStats 獲取緩存統計信息
func (s *Service) GetStats() map[string]interface{} {
	hits := atomic.LoadInt64(&s.hits)
	misses := atomic.LoadInt64(&s.misses)
	return map[string]interface{}{
		"driver":    "redis",
		"hits":      hits,
		"misses":    misses,
		"hit_ratio": hitRatio(hits, misses),
	}
}

// Close 連線由建立者關閉
func (s *Service) Close() error {
	return nil
}

// generateKey 生成緩存鍵
func (s *Service) generateKey(prompt string) string {
	return s.prefix + ":ai:response:" + hashKey(prompt)
}
