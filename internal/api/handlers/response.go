package handlers

import (
	"context"
	"errors"
	"net/http"

	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// ErrorResponse 錯誤回應
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondError 將錯誤轉為對應的 HTTP 狀態碼與 {code, message}
func RespondError(c *gin.Context, err error) {
	status, body := classify(err)

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
	}
	if status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogDebug("請求處理失敗", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func classify(err error) (int, ErrorResponse) {
	if common.IsValidationError(err) {
		return http.StatusBadRequest, ErrorResponse{Code: "VALIDATION_ERROR", Message: err.Error()}
	}

	if ce, ok := common.AsCustomError(err); ok {
		status := ce.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return status, ErrorResponse{Code: ce.Code, Message: ce.Message}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, ErrorResponse{
			Code:    common.ErrGatewayTimeout.Code,
			Message: common.ErrGatewayTimeout.Message,
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Code:    common.ErrInternalError.Code,
		Message: "Internal server error",
	}
}

// BindJSON 解析並驗證請求體，失敗時直接回應 400
func BindJSON(c *gin.Context, v interface{}) bool {
	if c.Request.Body == nil {
		RespondError(c, common.NewValidationError("invalid request body: empty body"))
		return false
	}
	if err := common.DecodeJSON(c.Request.Body, v); err != nil {
		RespondError(c, common.NewValidationError("invalid request body: "+err.Error()))
		return false
	}
	if err := binding.Validator.ValidateStruct(v); err != nil {
		RespondError(c, common.NewValidationError("invalid request body: "+err.Error()))
		return false
	}
	return true
}
