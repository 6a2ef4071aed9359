// Package store 定義資料存取邊界，提供記憶體與 Redis 兩種實作
package store

import (
	"context"

	"meal-planner/internal/pkg/common"
)

// HouseholdStore 家庭資料
type HouseholdStore interface {
	CreateHousehold(ctx context.Context, h *common.Household) error
	GetHousehold(ctx context.Context, id string) (*common.Household, error)
	GetHouseholdByName(ctx context.Context, name string) (*common.Household, error)
}

// RecipeStore 食譜資料
type RecipeStore interface {
	CreateRecipe(ctx context.Context, r *common.Recipe) error
	GetRecipe(ctx context.Context, id string) (*common.Recipe, error)
	// ListRecipes 回傳家庭的所有食譜，不保證順序
	ListRecipes(ctx context.Context, householdID string) ([]*common.Recipe, error)
	UpdateRecipe(ctx context.Context, r *common.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
}

// MealPlanStore 餐點計畫資料，(householdID, date) 唯一
type MealPlanStore interface {
	GetMealPlan(ctx context.Context, householdID, date string) (*common.MealPlan, error)
	// PutMealPlan 依 (householdID, date) 新增或覆蓋
	PutMealPlan(ctx context.Context, mp *common.MealPlan) error
	// DeleteMealPlan 回傳是否真的刪除了資料
	DeleteMealPlan(ctx context.Context, householdID, date string) (bool, error)
	// ListMealPlans 回傳 start 到 end（含）之間的計畫，依日期排序
	ListMealPlans(ctx context.Context, householdID, start, end string) ([]*common.MealPlan, error)
}

// GroceryStore 採買清單資料
type GroceryStore interface {
	CreateGroceryItem(ctx context.Context, item *common.GroceryItem) error
	GetGroceryItem(ctx context.Context, id string) (*common.GroceryItem, error)
	// ListGroceryItems 回傳家庭的所有項目，不保證順序
	ListGroceryItems(ctx context.Context, householdID string) ([]*common.GroceryItem, error)
	UpdateGroceryItem(ctx context.Context, item *common.GroceryItem) error
	DeleteGroceryItem(ctx context.Context, id string) error
	// DeleteGenerated 刪除家庭所有自動產生的項目，回傳刪除數量
	DeleteGenerated(ctx context.Context, householdID string) (int, error)
	// ReplaceGenerated 以 items 取代家庭所有自動產生的項目，回傳刪除數量
	ReplaceGenerated(ctx context.Context, householdID string, items []*common.GroceryItem) (int, error)
}

// Store 完整的資料存取介面
type Store interface {
	HouseholdStore
	RecipeStore
	MealPlanStore
	GroceryStore

	Ping(ctx context.Context) error
	Close() error
}

func notFound(kind, id string) error {
	return common.ErrNotFound.WithMessage(kind + " not found: " + id)
}

func cloneHousehold(h *common.Household) *common.Household {
	c := *h
	return &c
}

func cloneRecipe(r *common.Recipe) *common.Recipe {
	c := *r
	c.Ingredients = append([]string(nil), r.Ingredients...)
	c.PrepTime = cloneInt(r.PrepTime)
	c.Servings = cloneInt(r.Servings)
	c.ScaledServings = cloneInt(r.ScaledServings)
	return &c
}

func cloneMealPlan(mp *common.MealPlan) *common.MealPlan {
	c := *mp
	c.Recipe = nil
	return &c
}

func cloneGroceryItem(item *common.GroceryItem) *common.GroceryItem {
	c := *item
	if item.Quantity != nil {
		q := *item.Quantity
		c.Quantity = &q
	}
	return &c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
