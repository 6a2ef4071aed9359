package recipe

import (
	"net/http"

	"meal-planner/internal/api/handlers"
	recipeService "meal-planner/internal/core/recipe"

	"github.com/gin-gonic/gin"
)

// CreateRequest 新增食譜請求，家庭 ID 取自路徑
type CreateRequest struct {
	Title        string   `json:"title" binding:"required"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions,omitempty"`
	PrepTime     *int     `json:"prep_time,omitempty"`
	Servings     *int     `json:"servings,omitempty"`
}

// SortOrderRequest 排序請求
type SortOrderRequest struct {
	Orders []recipeService.SortUpdate `json:"orders" binding:"required"`
}

// Handler 食譜處理程序
type Handler struct {
	recipes *recipeService.Service
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recipes *recipeService.Service) *Handler {
	return &Handler{recipes: recipes}
}

// List 列出家庭的食譜，最近使用的在前
func (h *Handler) List(c *gin.Context) {
	householdID, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	recipes, err := h.recipes.List(c.Request.Context(), householdID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// Create 新增食譜
func (h *Handler) Create(c *gin.Context) {
	householdID, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	var req CreateRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	r, err := h.recipes.Create(c.Request.Context(), recipeService.CreateInput{
		HouseholdID:  householdID,
		Title:        req.Title,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		PrepTime:     req.PrepTime,
		Servings:     req.Servings,
	})
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// UpdateSortOrder 批次更新排序
func (h *Handler) UpdateSortOrder(c *gin.Context) {
	var req SortOrderRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	if err := h.recipes.UpdateSortOrder(c.Request.Context(), req.Orders); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get 取得食譜
func (h *Handler) Get(c *gin.Context) {
	id, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	r, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Update 部分更新食譜
func (h *Handler) Update(c *gin.Context) {
	id, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	var patch recipeService.Patch
	if !handlers.BindJSON(c, &patch) {
		return
	}
	r, err := h.recipes.Update(c.Request.Context(), id, patch)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Delete 刪除食譜
func (h *Handler) Delete(c *gin.Context) {
	id, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.Remove(c.Request.Context(), id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TouchLastUsed 標記食譜剛被使用
func (h *Handler) TouchLastUsed(c *gin.Context) {
	id, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.UpdateLastUsed(c.Request.Context(), id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Scaled 依份量縮放食材，未指定 servings 時使用上次的選擇
func (h *Handler) Scaled(c *gin.Context) {
	id, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	servings, ok := handlers.QueryInt(c, "servings", 0)
	if !ok {
		return
	}
	scaled, err := h.recipes.Scaled(c.Request.Context(), id, servings)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scaled)
}
