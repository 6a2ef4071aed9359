package ingredient

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ParsedQuantity 行首數量解析結果
type ParsedQuantity struct {
	Quantity *float64 // nil when no leading numeral was found
	Rest     string
}

var (
	mixedPattern    = regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)\s*`)
	fractionPattern = regexp.MustCompile(`^(\d+)/(\d+)\s*`)
	decimalPattern  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*`)
)

// ParseQuantity 解析食材行開頭的數量
//
//	"1 1/2 cups milk" -> 1.5, "cups milk"
//	"1/2 cup sugar"   -> 0.5, "cup sugar"
//	"2 cups flour"    -> 2,   "cups flour"
//	"pinch of salt"   -> nil, "pinch of salt"
//
// 分母為 0 時整行視為沒有數量
func ParseQuantity(line string) ParsedQuantity {
	trimmed := strings.TrimSpace(line)
	unquantified := ParsedQuantity{Rest: trimmed}

	if m := mixedPattern.FindStringSubmatch(trimmed); m != nil {
		whole := parseNumeral(m[1])
		frac, ok := divide(parseNumeral(m[2]), parseNumeral(m[3]))
		if !ok {
			return unquantified
		}
		return quantified(whole+frac, trimmed, trimmed[len(m[0]):])
	}

	if m := fractionPattern.FindStringSubmatch(trimmed); m != nil {
		q, ok := divide(parseNumeral(m[1]), parseNumeral(m[2]))
		if !ok {
			return unquantified
		}
		return quantified(q, trimmed, trimmed[len(m[0]):])
	}

	if m := decimalPattern.FindStringSubmatch(trimmed); m != nil {
		return quantified(parseNumeral(m[1]), trimmed, trimmed[len(m[0]):])
	}

	return unquantified
}

func quantified(q float64, line, rest string) ParsedQuantity {
	if math.IsInf(q, 0) || math.IsNaN(q) {
		return ParsedQuantity{Rest: line}
	}
	return ParsedQuantity{Quantity: &q, Rest: rest}
}

// parseNumeral 只會收到正規式已驗證過的數字字串
func parseNumeral(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func divide(num, den float64) (float64, bool) {
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// Float 回傳 v 的指標，用於建立可選數量
func Float(v float64) *float64 {
	return &v
}
