package store

import (
	"context"
	"sort"
	"sync"

	"meal-planner/internal/pkg/common"
)

// MemoryStore 記憶體實作，適合開發與測試
type MemoryStore struct {
	mu         sync.RWMutex
	households map[string]*common.Household
	recipes    map[string]*common.Recipe
	mealPlans  map[string]map[string]*common.MealPlan // householdID -> date -> plan
	grocery    map[string]*common.GroceryItem
}

// NewMemoryStore 創建記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		households: make(map[string]*common.Household),
		recipes:    make(map[string]*common.Recipe),
		mealPlans:  make(map[string]map[string]*common.MealPlan),
		grocery:    make(map[string]*common.GroceryItem),
	}
}

var _ Store = (*MemoryStore)(nil)

// CreateHousehold 新增家庭
func (s *MemoryStore) CreateHousehold(_ context.Context, h *common.Household) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.households[h.ID]; ok {
		return common.ErrConflict.WithMessage("household already exists: " + h.ID)
	}
	for _, existing := range s.households {
		if existing.Name == h.Name {
			return common.ErrConflict.WithMessage("household already exists: " + h.Name)
		}
	}
	s.households[h.ID] = cloneHousehold(h)
	return nil
}

// GetHousehold 取得家庭
func (s *MemoryStore) GetHousehold(_ context.Context, id string) (*common.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.households[id]
	if !ok {
		return nil, notFound("household", id)
	}
	return cloneHousehold(h), nil
}

// GetHouseholdByName 依名稱取得家庭
func (s *MemoryStore) GetHouseholdByName(_ context.Context, name string) (*common.Household, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.households {
		if h.Name == name {
			return cloneHousehold(h), nil
		}
	}
	return nil, notFound("household", name)
}

// CreateRecipe 新增食譜
func (s *MemoryStore) CreateRecipe(_ context.Context, r *common.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[r.ID] = cloneRecipe(r)
	return nil
}

// GetRecipe 取得食譜
func (s *MemoryStore) GetRecipe(_ context.Context, id string) (*common.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipes[id]
	if !ok {
		return nil, notFound("recipe", id)
	}
	return cloneRecipe(r), nil
}

// ListRecipes 列出家庭食譜
func (s *MemoryStore) ListRecipes(_ context.Context, householdID string) ([]*common.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*common.Recipe, 0)
	for _, r := range s.recipes {
		if r.HouseholdID == householdID {
			result = append(result, cloneRecipe(r))
		}
	}
	return result, nil
}

// UpdateRecipe 更新食譜
func (s *MemoryStore) UpdateRecipe(_ context.Context, r *common.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[r.ID]; !ok {
		return notFound("recipe", r.ID)
	}
	s.recipes[r.ID] = cloneRecipe(r)
	return nil
}

// DeleteRecipe 刪除食譜，不存在時不視為錯誤
func (s *MemoryStore) DeleteRecipe(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recipes, id)
	return nil
}

// GetMealPlan 取得某天的計畫
func (s *MemoryStore) GetMealPlan(_ context.Context, householdID, date string) (*common.MealPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mp, ok := s.mealPlans[householdID][date]
	if !ok {
		return nil, notFound("meal plan", householdID+"/"+date)
	}
	return cloneMealPlan(mp), nil
}

// PutMealPlan 新增或覆蓋某天的計畫
func (s *MemoryStore) PutMealPlan(_ context.Context, mp *common.MealPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	days, ok := s.mealPlans[mp.HouseholdID]
	if !ok {
		days = make(map[string]*common.MealPlan)
		s.mealPlans[mp.HouseholdID] = days
	}
	days[mp.Date] = cloneMealPlan(mp)
	return nil
}

// DeleteMealPlan 刪除某天的計畫
func (s *MemoryStore) DeleteMealPlan(_ context.Context, householdID, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := s.mealPlans[householdID]
	if _, ok := days[date]; !ok {
		return false, nil
	}
	delete(days, date)
	return true, nil
}

// ListMealPlans 列出日期區間內的計畫
func (s *MemoryStore) ListMealPlans(_ context.Context, householdID, start, end string) ([]*common.MealPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*common.MealPlan, 0)
	for date, mp := range s.mealPlans[householdID] {
		if date >= start && date <= end {
			result = append(result, cloneMealPlan(mp))
		}
	}
	sortMealPlans(result)
	return result, nil
}

// CreateGroceryItem 新增採買項目
func (s *MemoryStore) CreateGroceryItem(_ context.Context, item *common.GroceryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grocery[item.ID] = cloneGroceryItem(item)
	return nil
}

// GetGroceryItem 取得採買項目
func (s *MemoryStore) GetGroceryItem(_ context.Context, id string) (*common.GroceryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.grocery[id]
	if !ok {
		return nil, notFound("grocery item", id)
	}
	return cloneGroceryItem(item), nil
}

// ListGroceryItems 列出家庭的採買項目
func (s *MemoryStore) ListGroceryItems(_ context.Context, householdID string) ([]*common.GroceryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*common.GroceryItem, 0)
	for _, item := range s.grocery {
		if item.HouseholdID == householdID {
			result = append(result, cloneGroceryItem(item))
		}
	}
	return result, nil
}

// UpdateGroceryItem 更新採買項目
func (s *MemoryStore) UpdateGroceryItem(_ context.Context, item *common.GroceryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.grocery[item.ID]; !ok {
		return notFound("grocery item", item.ID)
	}
	s.grocery[item.ID] = cloneGroceryItem(item)
	return nil
}

// DeleteGroceryItem 刪除採買項目，不存在時不視為錯誤
func (s *MemoryStore) DeleteGroceryItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grocery, id)
	return nil
}

// DeleteGenerated 刪除自動產生的項目
func (s *MemoryStore) DeleteGenerated(_ context.Context, householdID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteGeneratedLocked(householdID), nil
}

// ReplaceGenerated 在同一把鎖內刪除並寫入，讀者不會看到一半的清單
func (s *MemoryStore) ReplaceGenerated(_ context.Context, householdID string, items []*common.GroceryItem) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.deleteGeneratedLocked(householdID)
	for _, item := range items {
		s.grocery[item.ID] = cloneGroceryItem(item)
	}
	return removed, nil
}

func (s *MemoryStore) deleteGeneratedLocked(householdID string) int {
	removed := 0
	for id, item := range s.grocery {
		if item.HouseholdID == householdID && item.IsGenerated {
			delete(s.grocery, id)
			removed++
		}
	}
	return removed
}

// Ping 記憶體儲存永遠可用
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close 釋放資料
func (s *MemoryStore) Close() error {
	return nil
}

func sortMealPlans(plans []*common.MealPlan) {
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].Date < plans[j].Date
	})
}
