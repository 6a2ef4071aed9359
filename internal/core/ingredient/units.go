package ingredient

import "strings"

// knownUnits 可辨識的單位（含單複數）
var knownUnits = map[string]struct{}{
	// 容量
	"cup": {}, "cups": {},
	"tbsp": {}, "tablespoon": {}, "tablespoons": {},
	"tsp": {}, "teaspoon": {}, "teaspoons": {},
	"ml": {}, "liter": {}, "liters": {},
	// 重量
	"oz": {}, "ounce": {}, "ounces": {},
	"lb": {}, "lbs": {}, "pound": {}, "pounds": {},
	"g": {}, "gram": {}, "grams": {},
	"kg": {},
	// 計數/份量
	"clove": {}, "cloves": {},
	"slice": {}, "slices": {},
	"piece": {}, "pieces": {},
	"can": {}, "cans": {},
	"bunch": {}, "bunches": {},
	"head": {}, "heads": {},
	// 少量
	"pinch": {}, "dash": {},
}

// unitNormalization 複數與全名對應到標準單數單位
var unitNormalization = map[string]string{
	"cups":        "cup",
	"tablespoons": "tbsp",
	"tablespoon":  "tbsp",
	"teaspoons":   "tsp",
	"teaspoon":    "tsp",
	"ounces":      "oz",
	"ounce":       "oz",
	"pounds":      "lb",
	"pound":       "lb",
	"lbs":         "lb",
	"grams":       "g",
	"gram":        "g",
	"liters":      "liter",
	"cloves":      "clove",
	"slices":      "slice",
	"pieces":      "piece",
	"cans":        "can",
	"bunches":     "bunch",
	"heads":       "head",
}

// NormalizeUnit 將單位轉為標準單數形式，未知單位原樣（小寫）返回
func NormalizeUnit(unit string) string {
	lower := strings.ToLower(unit)
	if normalized, ok := unitNormalization[lower]; ok {
		return normalized
	}
	return lower
}

// IsUnit 檢查是否為可辨識的單位
func IsUnit(word string) bool {
	_, ok := knownUnits[strings.ToLower(word)]
	return ok
}
