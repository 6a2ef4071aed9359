package household

import (
	"net/http"

	"meal-planner/internal/api/handlers"
	householdService "meal-planner/internal/core/household"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ContextKey 已驗證的家庭存放在 gin context 的 key
const ContextKey = "household"

// CreateRequest 建立（或取得）家庭
type CreateRequest struct {
	Name string `json:"name" binding:"required"`
}

// Handler 家庭處理器
type Handler struct {
	households *householdService.Service
}

// NewHandler 創建家庭處理器
func NewHandler(households *householdService.Service) *Handler {
	return &Handler{households: households}
}

// GetOrCreate 依名稱取得家庭，不存在時建立
func (h *Handler) GetOrCreate(c *gin.Context) {
	var req CreateRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	hh, err := h.households.GetOrCreate(c.Request.Context(), req.Name)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hh)
}

// Get 取得家庭
func (h *Handler) Get(c *gin.Context) {
	hh, ok := c.Get(ContextKey)
	if !ok {
		handlers.RespondError(c, common.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, hh)
}

// Require 確認路徑上的家庭存在，並放入 context
func (h *Handler) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := handlers.PathParam(c, "id")
		if !ok {
			return
		}
		hh, err := h.households.Get(c.Request.Context(), id)
		if err != nil {
			handlers.RespondError(c, err)
			return
		}
		c.Set(ContextKey, hh)
		c.Next()
	}
}
