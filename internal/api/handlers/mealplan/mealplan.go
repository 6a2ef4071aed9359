package mealplan

import (
	"net/http"

	"meal-planner/internal/api/handlers"
	mealplanService "meal-planner/internal/core/mealplan"

	"github.com/gin-gonic/gin"
)

// SetRequest 安排餐點
type SetRequest struct {
	RecipeID string `json:"recipe_id" binding:"required"`
}

// Handler 餐點計畫處理器
type Handler struct {
	plans *mealplanService.Service
}

// NewHandler 創建餐點計畫處理器
func NewHandler(plans *mealplanService.Service) *Handler {
	return &Handler{plans: plans}
}

// List 列出日期區間內的計畫（含頭尾）
func (h *Handler) List(c *gin.Context) {
	householdID, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	start, ok := handlers.RequiredQuery(c, "start")
	if !ok {
		return
	}
	end, ok := handlers.RequiredQuery(c, "end")
	if !ok {
		return
	}

	plans, err := h.plans.ListForDateRange(c.Request.Context(), householdID, start, end)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": plans})
}

// Set 安排某天的餐點，已有安排時覆蓋
func (h *Handler) Set(c *gin.Context) {
	householdID, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	date, ok := handlers.PathParam(c, "date")
	if !ok {
		return
	}
	var req SetRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	plan, err := h.plans.SetMeal(c.Request.Context(), householdID, date, req.RecipeID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Clear 清除某天的餐點
func (h *Handler) Clear(c *gin.Context) {
	householdID, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	date, ok := handlers.PathParam(c, "date")
	if !ok {
		return
	}
	if err := h.plans.ClearMeal(c.Request.Context(), householdID, date); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Ingredients 一週內所有餐點的食材行
func (h *Handler) Ingredients(c *gin.Context) {
	householdID, ok := handlers.PathParam(c, "id")
	if !ok {
		return
	}
	weekStart, ok := handlers.RequiredQuery(c, "week_start")
	if !ok {
		return
	}
	lines, err := h.plans.IngredientsForWeek(c.Request.Context(), householdID, weekStart)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"week_start": weekStart, "ingredients": lines})
}
