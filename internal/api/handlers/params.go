package handlers

import (
	"strconv"
	"strings"

	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// PathParam 取得路徑參數，空白時回應 400
func PathParam(c *gin.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.Param(name))
	if v == "" {
		RespondError(c, common.NewValidationError(name+" is required"))
		return "", false
	}
	return v, true
}

// QueryInt 取得整數查詢參數，未提供時回傳 def
func QueryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		RespondError(c, common.NewValidationError(key+" must be an integer"))
		return 0, false
	}
	return v, true
}

// RequiredQuery 取得必填的查詢參數
func RequiredQuery(c *gin.Context, key string) (string, bool) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		RespondError(c, common.NewValidationError(key+" is required"))
		return "", false
	}
	return v, true
}
