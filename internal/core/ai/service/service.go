package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/core/ai/queue"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Response AI 回應
type Response struct {
	Content  string `json:"content"`
	CacheHit bool   `json:"cache_hit"`
}

// Service AI 服務：統一 prompt、查快取、排隊呼叫模型、寫回快取
type Service struct {
	provider provider.Provider
	cache    cache.Cache
	queue    *queue.Manager
}

// NewService 創建 AI 服務，c 可為 nil 表示不使用快取
func NewService(p provider.Provider, c cache.Cache, queueCfg *config.QueueConfig) *Service {
	return &Service{
		provider: p,
		cache:    c,
		queue:    queue.NewManager(queueCfg, p.Generate),
	}
}

// NormalizePrompt 去除前後空白並把連續空白合併為一格，確保快取 key 一致
func NormalizePrompt(prompt string) string {
	return strings.Join(strings.Fields(prompt), " ")
}

// ProcessRequest 統一對外方法
func (s *Service) ProcessRequest(ctx context.Context, prompt string) (*Response, error) {
	prompt = NormalizePrompt(prompt)
	if prompt == "" {
		return nil, common.NewValidationError("prompt is empty")
	}

	if s.cache != nil {
		val, err := s.cache.Get(ctx, prompt)
		if err == nil && val != "" {
			return &Response{Content: val, CacheHit: true}, nil
		}
		if err != nil && !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("快取讀取失敗", zap.Error(err))
		}
	}

	resp, err := s.queue.Submit(ctx, provider.UserPrompt(prompt))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, common.ErrAIServiceError.Wrap(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, prompt, resp.Content); err != nil {
			common.LogWarn("快取寫入失敗", zap.Error(err))
		}
	}

	return &Response{Content: resp.Content}, nil
}

// Status 回傳隊列與快取狀態
func (s *Service) Status() map[string]interface{} {
	status := map[string]interface{}{
		"model": s.provider.GetModel(),
		"queue": s.queue.GetQueueStatus(),
	}
	if s.cache != nil {
		status["cache"] = s.cache.GetStats()
	}
	return status
}

// Close 關閉隊列、快取與提供者
func (s *Service) Close() error {
	s.queue.Close()
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			common.LogWarn("快取關閉失敗", zap.Error(err))
		}
	}
	if err := s.provider.Close(); err != nil {
		return fmt.Errorf("failed to close provider: %w", err)
	}
	return nil
}
