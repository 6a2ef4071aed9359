package ingredient

import "strings"

// Parsed 單行食材的解析結果
type Parsed struct {
	Quantity     *float64 `json:"quantity"`
	Unit         string   `json:"unit,omitempty"` // 空字串表示沒有單位
	Name         string   `json:"name"`
	OriginalLine string   `json:"original_line"`
}

// Option 解析器選項
type Option func(*Parser)

// WithSingularizer 設定名稱單數化函式，傳入 Identity 即不做單數化
func WithSingularizer(fn func(string) string) Option {
	return func(p *Parser) {
		if fn != nil {
			p.singularize = fn
		}
	}
}

// Parser 食材行解析器
type Parser struct {
	singularize func(string) string
}

// NewParser 創建解析器，預設會把名稱單數化
func NewParser(opts ...Option) *Parser {
	p := &Parser{singularize: Singularize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// ParseLine 使用預設解析器解析一行食材
func ParseLine(line string) Parsed {
	return defaultParser.ParseLine(line)
}

// ParseLine 將食材行拆成數量、單位與名稱
//
//	"2 cups flour"  -> 2,   "cup",   "flour"
//	"pinch of salt" -> nil, "pinch", "salt"
//	"salt to taste" -> nil, "",      "salt to taste"
func (p *Parser) ParseLine(line string) Parsed {
	pq := ParseQuantity(line)
	words := strings.Fields(pq.Rest)

	var unit string
	if len(words) > 0 && IsUnit(words[0]) {
		unit = NormalizeUnit(words[0])
		words = words[1:]
	}

	name := strings.ToLower(strings.Join(words, " "))
	name = strings.TrimPrefix(name, "of ")
	name = strings.TrimSpace(name)
	if name != "" {
		name = p.singularize(name)
	}

	return Parsed{
		Quantity:     pq.Quantity,
		Unit:         unit,
		Name:         name,
		OriginalLine: line,
	}
}
