package common

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout 日期字串格式
const DateLayout = "2006-01-02"

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// ParseDate 解析 YYYY-MM-DD 日期
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, NewValidationError("日期格式必須為 YYYY-MM-DD: " + s)
	}
	return t, nil
}

// AddDays 回傳 YYYY-MM-DD 日期加上天數後的日期字串
func AddDays(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}
