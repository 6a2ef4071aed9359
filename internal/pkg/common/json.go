package common

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v)
}

// DecodeJSON 使用統一設定解析 JSON
func DecodeJSON(r io.Reader, v interface{}) error {
	return decodeJSON(r, v)
}

func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return err
		}
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

var (
	unquotedKeyPattern = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	trailingCommaRe    = regexp.MustCompile(`,\s*([}\]])`)
	codeFenceRe        = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
)

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號
func QuoteJSONKeys(raw string) string {
	return unquotedKeyPattern.ReplaceAllString(raw, `$1"$2":`)
}

// ExtractJSONArray 從 AI 回覆中取出第一個 JSON 陣列
//
// 會移除 markdown code fence、尾端逗號，並補上缺少的鍵引號
func ExtractJSONArray(content string) (string, error) {
	if m := codeFenceRe.FindStringSubmatch(content); m != nil {
		content = m[1]
	}

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON array found in content")
	}

	raw := content[start : end+1]
	raw = trailingCommaRe.ReplaceAllString(raw, "$1")
	if !json.Valid([]byte(raw)) {
		raw = QuoteJSONKeys(raw)
	}
	if !json.Valid([]byte(raw)) {
		return "", fmt.Errorf("invalid JSON array in content")
	}
	return raw, nil
}

