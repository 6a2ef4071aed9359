package recipe

import (
	"meal-planner/internal/core/ingredient"
)

// maxLines 單次請求最多處理的食材行數
const maxLines = 500

// ParsedLine 解析結果，附上分數格式的數量
type ParsedLine struct {
	ingredient.Parsed
	QuantityText string `json:"quantity_text,omitempty"`
}

// Item 合併後的項目，附上顯示文字
type Item struct {
	ingredient.AggregatedItem
	DisplayText string `json:"display_text"`
}

func toParsedLines(items []ingredient.Parsed) []ParsedLine {
	out := make([]ParsedLine, 0, len(items))
	for _, p := range items {
		line := ParsedLine{Parsed: p}
		if p.Quantity != nil {
			line.QuantityText = ingredient.FormatQuantity(*p.Quantity)
		}
		out = append(out, line)
	}
	return out
}

func toItems(items []ingredient.AggregatedItem) []Item {
	out := make([]Item, 0, len(items))
	for _, a := range items {
		out = append(out, Item{AggregatedItem: a, DisplayText: ingredient.FormatDisplayText(a)})
	}
	return out
}
