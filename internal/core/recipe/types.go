package recipe

import "meal-planner/internal/pkg/common"

// 份量範圍
const (
	MinServings = 1
	MaxServings = 99
)

// CreateInput 新增食譜的參數
type CreateInput struct {
	HouseholdID  string   `json:"household_id"`
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions,omitempty"`
	PrepTime     *int     `json:"prep_time,omitempty"`
	Servings     *int     `json:"servings,omitempty"`
}

// Patch 部分更新，nil 欄位保持不變
type Patch struct {
	Title          *string   `json:"title,omitempty"`
	Ingredients    *[]string `json:"ingredients,omitempty"`
	Instructions   *string   `json:"instructions,omitempty"`
	PrepTime       *int      `json:"prep_time,omitempty"`
	Servings       *int      `json:"servings,omitempty"`
	ScaledServings *int      `json:"scaled_servings,omitempty"`
}

// IsEmpty 沒有任何欄位需要更新
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Ingredients == nil && p.Instructions == nil &&
		p.PrepTime == nil && p.Servings == nil && p.ScaledServings == nil
}

// SortUpdate 拖曳排序後的新順序
type SortUpdate struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sort_order"`
}

// Scaled 依份量縮放後的食譜
type Scaled struct {
	Recipe           *common.Recipe `json:"recipe"`
	Servings         int            `json:"servings"`
	OriginalServings int            `json:"original_servings"`
	Factor           float64        `json:"factor"`
	Ingredients      []string       `json:"ingredients"`
}
