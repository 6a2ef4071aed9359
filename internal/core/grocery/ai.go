package grocery

import (
	"context"
	"fmt"
	"math"
	"strings"

	"meal-planner/internal/core/ai/service"
	"meal-planner/internal/core/ingredient"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// AIProcessor 送出 prompt 並取得模型回應
type AIProcessor interface {
	ProcessRequest(ctx context.Context, prompt string) (*service.Response, error)
}

// AIAggregator 請模型合併食材行，可處理規則合併做不到的同義食材與單位換算
type AIAggregator struct {
	ai AIProcessor
}

// NewAIAggregator 創建 AI 合併器
func NewAIAggregator(ai AIProcessor) *AIAggregator {
	return &AIAggregator{ai: ai}
}

type aiItem struct {
	Name          string   `json:"name"`
	Quantity      *float64 `json:"quantity"`
	Unit          *string  `json:"unit"`
	OriginalItems []string `json:"originalItems"`
}

const aggregatePrompt = `You are a grocery list assistant. Combine the recipe ingredient lines below into a single shopping list.
Rules:
1. Merge ingredients that are the same item even when worded differently (e.g. "scallions" and "green onions").
2. Convert units where needed so merged items share one unit, and sum the quantities.
3. Use singular lowercase ingredient names without preparation notes (e.g. "onion", not "2 onions, diced").
4. Use null for quantity or unit when there is none.
5. Reply with ONLY a JSON array, no explanation, in this form:
[{"name": "flour", "quantity": 3, "unit": "cup", "originalItems": ["2 cups flour", "1 cup flour"]}]
Ingredient lines:
%s`

// BuildAggregatePrompt 產生合併食材用的 prompt
func BuildAggregatePrompt(lines []string) string {
	var b strings.Builder
	n := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n++
		fmt.Fprintf(&b, "%d. %s\n", n, line)
	}
	return fmt.Sprintf(aggregatePrompt, b.String())
}

// Aggregate 呼叫模型並把回應正規化成與規則合併相同的格式
func (a *AIAggregator) Aggregate(ctx context.Context, lines []string) ([]ingredient.AggregatedItem, error) {
	resp, err := a.ai.ProcessRequest(ctx, BuildAggregatePrompt(lines))
	if err != nil {
		return nil, err
	}

	items, err := ParseAIItems(resp.Content)
	if err != nil {
		common.LogWarn("無法解析 AI 合併結果",
			zap.Bool("cache_hit", resp.CacheHit),
			zap.Error(err),
		)
		return nil, err
	}
	return items, nil
}

// ParseAIItems 解析模型回應；名稱為空的項目略過，數量為負數時整份結果無效
func ParseAIItems(content string) ([]ingredient.AggregatedItem, error) {
	raw, err := common.ExtractJSONArray(content)
	if err != nil {
		return nil, common.ErrInvalidAIResult.Wrap(err)
	}

	var items []aiItem
	if err := common.ParseJSON(raw, &items); err != nil {
		return nil, common.ErrInvalidAIResult.Wrap(err)
	}

	parsed := make([]ingredient.Parsed, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}

		p := ingredient.Parsed{Name: strings.ToLower(name)}
		if item.Unit != nil {
			p.Unit = ingredient.NormalizeUnit(strings.TrimSpace(*item.Unit))
		}
		if item.Quantity != nil {
			q := *item.Quantity
			if q < 0 || math.IsNaN(q) || math.IsInf(q, 0) {
				return nil, common.ErrInvalidAIResult.WithMessage(
					fmt.Sprintf("invalid quantity %v for %q", q, name))
			}
			if q > 0 {
				p.Quantity = ingredient.Float(q)
			}
		}
		parsed = append(parsed, p)
	}

	// 再合併一次，模型偶爾會留下重複的項目
	return ingredient.AggregateParsed(parsed), nil
}
