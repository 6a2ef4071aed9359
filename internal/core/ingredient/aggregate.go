package ingredient

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// AggregatedItem 合併後的採買項目
type AggregatedItem struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit,omitempty"`
}

// quarterTolerance 避免浮點誤差把剛好落在 1/4 的數字進位
const quarterTolerance = 1e-9

// RoundUpToQuarter 無條件進位到最接近的 0.25，寧可多買不要少買
//
//	2.1 -> 2.25, 2.3 -> 2.5, 2.0 -> 2.0
func RoundUpToQuarter(q float64) float64 {
	rounded := math.Ceil(q*4-quarterTolerance) / 4
	if rounded == 0 {
		return 0 // 避免 -0
	}
	return rounded
}

// Aggregate 使用預設解析器解析並合併食材行
func Aggregate(lines []string) []AggregatedItem {
	return defaultParser.Aggregate(lines)
}

// Aggregate 解析每行食材，以 (名稱, 單位) 分組加總數量
//
//	["2 cups flour", "1 cup flour"]   -> [{Flour 3 cup}]
//	["1 tsp salt", "pinch of salt"]   -> [{Salt nil pinch} {Salt 1 tsp}]
func (p *Parser) Aggregate(lines []string) []AggregatedItem {
	parsed := make([]Parsed, 0, len(lines))
	for _, line := range lines {
		parsed = append(parsed, p.ParseLine(line))
	}
	return AggregateParsed(parsed)
}

type group struct {
	name     string
	unit     string
	sum      float64
	hasTotal bool
}

// AggregateParsed 合併已解析的項目；名稱為空的項目會被略過
func AggregateParsed(items []Parsed) []AggregatedItem {
	index := make(map[string]*group)
	var order []*group

	for _, item := range items {
		if item.Name == "" {
			continue
		}
		name := strings.ToLower(item.Name)
		key := name + "|" + item.Unit

		g, ok := index[key]
		if !ok {
			g = &group{name: name, unit: item.Unit}
			index[key] = g
			order = append(order, g)
		}
		if item.Quantity != nil {
			g.sum += *item.Quantity
			g.hasTotal = true
		}
	}

	result := make([]AggregatedItem, 0, len(order))
	for _, g := range order {
		agg := AggregatedItem{
			Name: Capitalize(g.name),
			Unit: g.unit,
		}
		if g.hasTotal {
			agg.Quantity = Float(RoundUpToQuarter(g.sum))
		}
		result = append(result, agg)
	}

	SortItems(result)
	return result
}

// SortItems 依名稱（不分大小寫）排序，同名時依單位排序，無單位者在前
func SortItems(items []AggregatedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if a != b {
			return a < b
		}
		return items[i].Unit < items[j].Unit
	})
}

// Capitalize 將第一個字母轉為大寫
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ToParsed 將合併結果轉回解析項目，用於再次合併
func (a AggregatedItem) ToParsed() Parsed {
	return Parsed{
		Quantity: a.Quantity,
		Unit:     a.Unit,
		Name:     strings.ToLower(a.Name),
	}
}
