package ingredient

import "strings"

// irregularPlurals 不規則複數
var irregularPlurals = map[string]string{
	"tomatoes": "tomato",
	"potatoes": "potato",
	"leaves":   "leaf",
	"loaves":   "loaf",
	"knives":   "knife",
	"halves":   "half",
}

// Singularize 粗略地把食材名稱轉為單數，讓 "beans" 與 "bean" 能合併
//
// 這是啟發式規則，不處理所有英文複數
func Singularize(word string) string {
	lower := strings.ToLower(word)

	if singular, ok := irregularPlurals[lower]; ok {
		return singular
	}

	// berries -> berry
	if strings.HasSuffix(lower, "ies") && len(lower) > 4 {
		return lower[:len(lower)-3] + "y"
	}

	// boxes -> box, peaches -> peach
	if strings.HasSuffix(lower, "es") && len(lower) > 3 {
		stem := lower[:len(lower)-2]
		for _, suffix := range []string{"s", "x", "z", "ch", "sh"} {
			if strings.HasSuffix(stem, suffix) {
				return stem
			}
		}
	}

	// beans -> bean
	if strings.HasSuffix(lower, "s") && len(lower) > 2 && !strings.HasSuffix(lower, "ss") {
		return lower[:len(lower)-1]
	}

	return lower
}

// Identity 不做任何單數化
func Identity(word string) string {
	return word
}
