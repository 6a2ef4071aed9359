package ingredient

import (
	"fmt"
	"math"
	"strconv"
)

// FormatDisplayText 產生採買清單顯示文字
//
//	{Flour 3 cup}    -> "Flour (3 cup)"
//	{Garlic 2 ""}    -> "Garlic (2)"
//	{Salt nil ""}    -> "Salt"
func FormatDisplayText(item AggregatedItem) string {
	if item.Quantity == nil {
		return item.Name
	}

	qty := strconv.FormatFloat(*item.Quantity, 'f', -1, 64)
	if item.Unit != "" {
		return fmt.Sprintf("%s (%s %s)", item.Name, qty, item.Unit)
	}
	return fmt.Sprintf("%s (%s)", item.Name, qty)
}

// vulgarFraction 常見分數（對應 Unicode 分數字元）
type vulgarFraction struct {
	num, den int
}

var vulgarFractions = []vulgarFraction{
	{1, 2},
	{1, 3}, {2, 3},
	{1, 4}, {3, 4},
	{1, 5}, {2, 5}, {3, 5}, {4, 5},
	{1, 6}, {5, 6},
	{1, 7},
	{1, 8}, {3, 8}, {5, 8}, {7, 8},
	{1, 9},
	{1, 10},
}

const (
	// wholeEpsilon 小數部分低於此值視為整數
	wholeEpsilon = 0.01
	// fractionTolerance 分數比對容許誤差
	fractionTolerance = 0.005
)

// toVulgar 把 0~1 之間的小數轉成 "n/d"，無法對應時回傳 false
func toVulgar(f float64) (string, bool) {
	best := -1
	bestDiff := fractionTolerance
	for i, vf := range vulgarFractions {
		diff := math.Abs(f - float64(vf.num)/float64(vf.den))
		if diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	if best < 0 {
		return "", false
	}
	vf := vulgarFractions[best]
	return fmt.Sprintf("%d/%d", vf.num, vf.den), true
}

// FormatQuantity 以分數格式輸出數量
//
//	0.5 -> "1/2", 1.5 -> "1 1/2", 2 -> "2", 2.75 -> "2 3/4"
func FormatQuantity(q float64) string {
	whole := math.Floor(q)
	frac := q - whole

	if frac < wholeEpsilon {
		return strconv.FormatFloat(whole, 'f', 0, 64)
	}

	vulgar, ok := toVulgar(frac)
	if whole == 0 {
		if ok {
			return vulgar
		}
		return strconv.FormatFloat(frac, 'f', 2, 64)
	}

	if ok {
		return fmt.Sprintf("%s %s", strconv.FormatFloat(whole, 'f', 0, 64), vulgar)
	}
	return strconv.FormatFloat(q, 'f', 2, 64)
}
