package grocery

import (
	"net/http"

	"meal-planner/internal/api/handlers"
	groceryService "meal-planner/internal/core/grocery"

	"github.com/gin-gonic/gin"
)

// GenerateRequest 產生採買清單
type GenerateRequest struct {
	WeekStart string `json:"week_start" binding:"required"`
	UseAI     bool   `json:"use_ai"`
}

// AddItemRequest 新增手動項目，例如 "2 cups milk"
type AddItemRequest struct {
	Text string `json:"text" binding:"required"`
}

// Handler 採買清單處理器
type Handler struct {
	grocery *groceryService.Service
}

// NewHandler 創建採買清單處理器
func NewHandler(grocery *groceryService.Service) *Handler {
	return &Handler{grocery: grocery}
}

// List 列出採買清單
func (h *Handler) List(c *gin.Context) {
	householdID, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	items, err := h.grocery.List(c.Request.Context(), householdID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Generate 依一週的餐點產生採買清單
func (h *Handler) Generate(c *gin.Context) {
	householdID, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	var req GenerateRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	var (
		res *groceryService.GenerateResult
		err error
	)
	if req.UseAI {
		res, err = h.grocery.GenerateWithAI(c.Request.Context(), householdID, req.WeekStart)
	} else {
		res, err = h.grocery.Generate(c.Request.Context(), householdID, req.WeekStart)
	}
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AddItem 新增手動項目，與既有項目相同時合併
func (h *Handler) AddItem(c *gin.Context) {
	householdID, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	var req AddItemRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	item, err := h.grocery.AddManualItem(c.Request.Context(), householdID, req.Text)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// UncheckAll 取消所有勾選
func (h *Handler) UncheckAll(c *gin.Context) {
	householdID, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	n, err := h.grocery.UncheckAll(c.Request.Context(), householdID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// ClearGenerated 刪除自動產生的項目
func (h *Handler) ClearGenerated(c *gin.Context) {
	householdID, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	n, err := h.grocery.ClearGenerated(c.Request.Context(), householdID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// Toggle 切換勾選狀態
func (h *Handler) Toggle(c *gin.Context) {
	id, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	checked, err := h.grocery.ToggleItem(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_checked": checked})
}

// Delete 刪除單一項目
func (h *Handler) Delete(c *gin.Context) {
	id, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	if err := h.grocery.DeleteItem(c.Request.Context(), id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
