package recipe

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"meal-planner/internal/core/ingredient"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/store"

	"go.uber.org/zap"
)

// Service 食譜服務
type Service struct {
	store store.RecipeStore
	now   func() time.Time
}

// NewService 創建新的食譜服務
func NewService(s store.RecipeStore) *Service {
	return &Service{
		store: s,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create 新增食譜，排在家庭最後並標記為剛使用
func (s *Service) Create(ctx context.Context, in CreateInput) (*common.Recipe, error) {
	title := strings.TrimSpace(in.Title)
	if in.HouseholdID == "" {
		return nil, common.NewValidationError("household_id is required")
	}
	if title == "" {
		return nil, common.NewValidationError("title is required")
	}
	if err := validateCounts(in.PrepTime, in.Servings); err != nil {
		return nil, err
	}

	existing, err := s.store.ListRecipes(ctx, in.HouseholdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	maxOrder := 0
	for _, r := range existing {
		if r.SortOrder > maxOrder {
			maxOrder = r.SortOrder
		}
	}

	now := s.now()
	r := &common.Recipe{
		ID:           common.GenerateUUID(),
		HouseholdID:  in.HouseholdID,
		Title:        title,
		Ingredients:  cleanLines(in.Ingredients),
		Instructions: strings.TrimSpace(in.Instructions),
		PrepTime:     in.PrepTime,
		Servings:     in.Servings,
		SortOrder:    maxOrder + 1,
		LastUsed:     now,
		CreatedAt:    now,
	}

	if err := s.store.CreateRecipe(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	common.LogInfo("食譜已建立",
		zap.String("recipe_id", r.ID),
		zap.Int("ingredients", len(r.Ingredients)),
	)
	return r, nil
}

// List 列出家庭食譜，最近使用的在前
func (s *Service) List(ctx context.Context, householdID string) ([]*common.Recipe, error) {
	recipes, err := s.store.ListRecipes(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	sort.SliceStable(recipes, func(i, j int) bool {
		a, b := recipes[i], recipes[j]
		if !a.LastUsed.Equal(b.LastUsed) {
			return a.LastUsed.After(b.LastUsed)
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.ID < b.ID
	})
	return recipes, nil
}

// Get 取得食譜
func (s *Service) Get(ctx context.Context, id string) (*common.Recipe, error) {
	return s.store.GetRecipe(ctx, id)
}

// Update 只更新有提供的欄位
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*common.Recipe, error) {
	r, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return r, nil
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, common.NewValidationError("title cannot be empty")
		}
		r.Title = title
	}
	if patch.Ingredients != nil {
		r.Ingredients = cleanLines(*patch.Ingredients)
	}
	if patch.Instructions != nil {
		r.Instructions = strings.TrimSpace(*patch.Instructions)
	}
	if err := validateCounts(patch.PrepTime, patch.Servings); err != nil {
		return nil, err
	}
	if patch.PrepTime != nil {
		r.PrepTime = patch.PrepTime
	}
	if patch.Servings != nil {
		r.Servings = patch.Servings
	}
	if patch.ScaledServings != nil {
		if err := validateServings(*patch.ScaledServings); err != nil {
			return nil, err
		}
		r.ScaledServings = patch.ScaledServings
	}

	if err := s.store.UpdateRecipe(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return r, nil
}

// Remove 刪除食譜，已排入的餐點計畫會顯示為無食譜
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

// UpdateSortOrder 批次更新排序
func (s *Service) UpdateSortOrder(ctx context.Context, updates []SortUpdate) error {
	for _, u := range updates {
		r, err := s.store.GetRecipe(ctx, u.ID)
		if err != nil {
			return err
		}
		r.SortOrder = u.SortOrder
		if err := s.store.UpdateRecipe(ctx, r); err != nil {
			return fmt.Errorf("failed to update sort order: %w", err)
		}
	}
	return nil
}

// UpdateLastUsed 更新最後使用時間
func (s *Service) UpdateLastUsed(ctx context.Context, id string) error {
	r, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	r.LastUsed = s.now()
	if err := s.store.UpdateRecipe(ctx, r); err != nil {
		return fmt.Errorf("failed to update last used: %w", err)
	}
	return nil
}

// Scaled 依份量縮放食材
//
// servings 為 0 時使用上次選擇的份量（沒有則為原始份量），不會寫回；
// 其他值需介於 1~99，並記錄為使用者偏好
func (s *Service) Scaled(ctx context.Context, id string, servings int) (*Scaled, error) {
	r, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	original := 0
	if r.Servings != nil {
		original = *r.Servings
	}

	if servings == 0 {
		servings = original
		if r.ScaledServings != nil {
			servings = *r.ScaledServings
		}
		if servings == 0 {
			servings = MinServings
		}
	} else {
		if err := validateServings(servings); err != nil {
			return nil, err
		}
		if r.ScaledServings == nil || *r.ScaledServings != servings {
			r.ScaledServings = common.IntPtr(servings)
			if err := s.store.UpdateRecipe(ctx, r); err != nil {
				return nil, fmt.Errorf("failed to save scaled servings: %w", err)
			}
		}
	}

	factor := ingredient.ScaleFactor(servings, original)
	return &Scaled{
		Recipe:           r,
		Servings:         servings,
		OriginalServings: original,
		Factor:           factor,
		Ingredients:      ingredient.ScaleLines(r.Ingredients, factor),
	}, nil
}

func validateServings(servings int) error {
	if servings < MinServings || servings > MaxServings {
		return common.NewValidationError(fmt.Sprintf("servings must be between %d and %d", MinServings, MaxServings))
	}
	return nil
}

func validateCounts(prepTime, servings *int) error {
	if prepTime != nil && *prepTime < 0 {
		return common.NewValidationError("prep_time cannot be negative")
	}
	if servings != nil {
		return validateServings(*servings)
	}
	return nil
}

// cleanLines 去除前後空白並丟棄空行
func cleanLines(lines []string) []string {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
