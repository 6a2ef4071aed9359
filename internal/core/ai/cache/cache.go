// Package cache 提供 AI 回應快取，可使用記憶體或 Redis
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Cache AI 回應快取介面
type Cache interface {
	// Get 取得快取內容，未命中時回傳 common.ErrCacheMiss
	Get(ctx context.Context, prompt string) (string, error)
	Set(ctx context.Context, prompt, value string) error
	GetStats() map[string]interface{}
	Close() error
}

// hashKey 計算 prompt 的 SHA-256 作為快取鍵
func hashKey(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return "text:" + hex.EncodeToString(hash[:])
}

func hitRatio(hits, misses int64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}
