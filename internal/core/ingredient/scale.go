package ingredient

import "math"

// RoundToEighth 四捨五入到最接近的 1/8，份量換算重視準確度
func RoundToEighth(q float64) float64 {
	return math.Round(q*8) / 8
}

// ScaleQuantity 依比例縮放數量並取到 1/8
func ScaleQuantity(q, factor float64) float64 {
	return RoundToEighth(q * factor)
}

// ScaleFactor 計算份量比例，原始份量為 0 時回傳 1
func ScaleFactor(servings, originalServings int) float64 {
	if originalServings == 0 {
		return 1
	}
	return float64(servings) / float64(originalServings)
}

// ScaleLine 縮放食材行開頭的數量並重組文字
//
//	("1 cup flour", 1.5)  -> "1 1/2 cup flour"
//	("pinch of salt", 2)  -> "pinch of salt"
func ScaleLine(line string, factor float64) string {
	if factor <= 0 || math.IsInf(factor, 0) || math.IsNaN(factor) {
		return line
	}

	pq := ParseQuantity(line)
	if pq.Quantity == nil {
		return line
	}

	formatted := FormatQuantity(ScaleQuantity(*pq.Quantity, factor))
	if pq.Rest == "" {
		return formatted
	}
	return formatted + " " + pq.Rest
}

// ScaleLines 縮放多行食材
func ScaleLines(lines []string, factor float64) []string {
	scaled := make([]string, len(lines))
	for i, line := range lines {
		scaled[i] = ScaleLine(line, factor)
	}
	return scaled
}
