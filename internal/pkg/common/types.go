package common

import "time"

// Household 家庭，所有資料都以家庭為範圍
type Household struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Recipe 食譜
type Recipe struct {
	ID             string    `json:"id"`
	HouseholdID    string    `json:"household_id"`
	Title          string    `json:"title"`
	Ingredients    []string  `json:"ingredients"` // 原始食材行，例如 "2 cups flour"
	Instructions   string    `json:"instructions,omitempty"`
	PrepTime       *int      `json:"prep_time,omitempty"` // 分鐘
	Servings       *int      `json:"servings,omitempty"`
	ScaledServings *int      `json:"scaled_servings,omitempty"` // 使用者上次選擇的份量
	SortOrder      int       `json:"sort_order"`
	LastUsed       time.Time `json:"last_used"`
	CreatedAt      time.Time `json:"created_at"`
}

// RecipeSummary 嵌入在餐點計畫中的食譜摘要
type RecipeSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Servings *int   `json:"servings,omitempty"`
	PrepTime *int   `json:"prep_time,omitempty"`
}

// Summary 取得食譜摘要
func (r *Recipe) Summary() *RecipeSummary {
	return &RecipeSummary{
		ID:       r.ID,
		Title:    r.Title,
		Servings: r.Servings,
		PrepTime: r.PrepTime,
	}
}

// MealPlan 某一天的餐點安排，(household, date) 唯一
type MealPlan struct {
	ID          string         `json:"id"`
	HouseholdID string         `json:"household_id"`
	Date        string         `json:"date"` // YYYY-MM-DD
	RecipeID    string         `json:"recipe_id"`
	Recipe      *RecipeSummary `json:"recipe"` // 食譜已刪除時為 null
}

// GroceryItem 採買清單項目
type GroceryItem struct {
	ID          string   `json:"id"`
	HouseholdID string   `json:"household_id"`
	Name        string   `json:"name"`
	Quantity    *float64 `json:"quantity"`
	Unit        string   `json:"unit,omitempty"`
	DisplayText string   `json:"display_text"`
	IsChecked   bool     `json:"is_checked"`
	IsGenerated bool     `json:"is_generated"`
	WeekStart   string   `json:"week_start,omitempty"` // 只有自動產生的項目才有
}

// IntPtr 取得 int 指標
func IntPtr(v int) *int {
	return &v
}
