package household

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meal-planner/internal/pkg/common"
	"meal-planner/internal/store"

	"go.uber.org/zap"
)

// Service 家庭服務
type Service struct {
	store store.HouseholdStore
}

// NewService 創建家庭服務
func NewService(s store.HouseholdStore) *Service {
	return &Service{store: s}
}

// GetOrCreate 依名稱取得家庭，不存在時建立
func (s *Service) GetOrCreate(ctx context.Context, name string) (*common.Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewValidationError("household name is required")
	}

	h, err := s.store.GetHouseholdByName(ctx, name)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up household: %w", err)
	}

	h = &common.Household{
		ID:        common.GenerateUUID(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateHousehold(ctx, h); err != nil {
		// 同時建立時另一方已寫入
		if errors.Is(err, common.ErrConflict) {
			return s.store.GetHouseholdByName(ctx, name)
		}
		return nil, fmt.Errorf("failed to create household: %w", err)
	}

	common.LogInfo("家庭已建立", zap.String("household_id", h.ID), zap.String("name", name))
	return h, nil
}

// Get 取得家庭
func (s *Service) Get(ctx context.Context, id string) (*common.Household, error) {
	return s.store.GetHousehold(ctx, id)
}
