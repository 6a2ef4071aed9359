package mealplan

import (
	"context"
	"errors"
	"fmt"

	"meal-planner/internal/pkg/common"
	"meal-planner/internal/store"

	"go.uber.org/zap"
)

// WeekDays 一週的天數，週一到週日
const WeekDays = 7

// RecipeSource 餐點計畫需要的食譜操作
type RecipeSource interface {
	Get(ctx context.Context, id string) (*common.Recipe, error)
	UpdateLastUsed(ctx context.Context, id string) error
}

// Service 餐點計畫服務
type Service struct {
	store   store.MealPlanStore
	recipes RecipeSource
}

// NewService 創建餐點計畫服務
func NewService(s store.MealPlanStore, recipes RecipeSource) *Service {
	return &Service{store: s, recipes: recipes}
}

// SetMeal 設定某天的餐點（已存在則覆蓋），並更新食譜的最後使用時間
func (s *Service) SetMeal(ctx context.Context, householdID, date, recipeID string) (*common.MealPlan, error) {
	if _, err := common.ParseDate(date); err != nil {
		return nil, err
	}
	if recipeID == "" {
		return nil, common.NewValidationError("recipe_id is required")
	}

	r, err := s.recipes.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if r.HouseholdID != householdID {
		return nil, common.NewValidationError("recipe does not belong to household")
	}

	mp := &common.MealPlan{
		ID:          common.GenerateUUID(),
		HouseholdID: householdID,
		Date:        date,
		RecipeID:    recipeID,
	}
	existing, err := s.store.GetMealPlan(ctx, householdID, date)
	switch {
	case err == nil:
		mp.ID = existing.ID
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}

	if err := s.store.PutMealPlan(ctx, mp); err != nil {
		return nil, fmt.Errorf("failed to save meal plan: %w", err)
	}

	if err := s.recipes.UpdateLastUsed(ctx, recipeID); err != nil {
		common.LogWarn("更新食譜使用時間失敗", zap.String("recipe_id", recipeID), zap.Error(err))
	}

	mp.Recipe = r.Summary()
	return mp, nil
}

// ClearMeal 清除某天的餐點，不存在時不視為錯誤
func (s *Service) ClearMeal(ctx context.Context, householdID, date string) error {
	if _, err := common.ParseDate(date); err != nil {
		return err
	}
	if _, err := s.store.DeleteMealPlan(ctx, householdID, date); err != nil {
		return fmt.Errorf("failed to clear meal plan: %w", err)
	}
	return nil
}

// ListForDateRange 列出日期區間（含頭尾）的計畫，並附上食譜摘要
func (s *Service) ListForDateRange(ctx context.Context, householdID, start, end string) ([]*common.MealPlan, error) {
	plans, recipes, err := s.load(ctx, householdID, start, end)
	if err != nil {
		return nil, err
	}
	for _, mp := range plans {
		if r, ok := recipes[mp.RecipeID]; ok {
			mp.Recipe = r.Summary()
		}
	}
	return plans, nil
}

// IngredientsForWeek 收集 weekStart 起七天內所有餐點的食材行，依日期排序
func (s *Service) IngredientsForWeek(ctx context.Context, householdID, weekStart string) ([]string, error) {
	end, err := common.AddDays(weekStart, WeekDays-1)
	if err != nil {
		return nil, err
	}

	plans, recipes, err := s.load(ctx, householdID, weekStart, end)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0)
	for _, mp := range plans {
		if r, ok := recipes[mp.RecipeID]; ok {
			lines = append(lines, r.Ingredients...)
		}
	}
	return lines, nil
}

// load 讀取區間內的計畫與對應食譜，已刪除的食譜會被略過
func (s *Service) load(ctx context.Context, householdID, start, end string) ([]*common.MealPlan, map[string]*common.Recipe, error) {
	startDate, err := common.ParseDate(start)
	if err != nil {
		return nil, nil, err
	}
	endDate, err := common.ParseDate(end)
	if err != nil {
		return nil, nil, err
	}
	if endDate.Before(startDate) {
		return nil, nil, common.NewValidationError("end date is before start date")
	}

	plans, err := s.store.ListMealPlans(ctx, householdID, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list meal plans: %w", err)
	}

	recipes := make(map[string]*common.Recipe, len(plans))
	for _, mp := range plans {
		if _, ok := recipes[mp.RecipeID]; ok {
			continue
		}
		r, err := s.recipes.Get(ctx, mp.RecipeID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, nil, err
		}
		recipes[mp.RecipeID] = r
	}
	return plans, recipes, nil
}
