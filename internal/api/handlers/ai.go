package handlers

import (
	"net/http"

	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// AIStatus 提供 AI 服務狀態的介面
type AIStatus interface {
	Status() map[string]interface{}
}

// AIHandler AI 處理器
type AIHandler struct {
	aiService AIStatus
}

// NewAIHandler 創建 AI 處理器，aiService 為 nil 表示未啟用
func NewAIHandler(aiService AIStatus) *AIHandler {
	return &AIHandler{aiService: aiService}
}

// Status 回傳模型、隊列與快取狀態
func (h *AIHandler) Status(c *gin.Context) {
	if h.aiService == nil {
		RespondError(c, common.ErrAIDisabled)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled": true,
		"status":  h.aiService.Status(),
	})
}
