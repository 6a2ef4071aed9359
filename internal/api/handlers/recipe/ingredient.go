package recipe

import (
	"fmt"
	"math"
	"net/http"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/core/ingredient"
	recipeService "meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// LinesRequest 食材行請求
type LinesRequest struct {
	Lines []string `json:"lines" binding:"required"`
	// Singularize 預設為 true；false 時名稱保持原樣
	Singularize *bool `json:"singularize,omitempty"`
}

// ScaleRequest 縮放請求；提供 factor 時忽略份量
type ScaleRequest struct {
	Lines            []string `json:"lines" binding:"required"`
	Factor           *float64 `json:"factor,omitempty"`
	Servings         int      `json:"servings,omitempty"`
	OriginalServings int      `json:"original_servings,omitempty"`
}

// IngredientHandler 食材工具處理器，不需要儲存層
type IngredientHandler struct {
	parser   *ingredient.Parser
	identity *ingredient.Parser
}

// NewIngredientHandler 創建食材工具處理器
func NewIngredientHandler() *IngredientHandler {
	return &IngredientHandler{
		parser:   ingredient.NewParser(),
		identity: ingredient.NewParser(ingredient.WithSingularizer(ingredient.Identity)),
	}
}

func (h *IngredientHandler) parserFor(req *LinesRequest) *ingredient.Parser {
	if req.Singularize != nil && !*req.Singularize {
		return h.identity
	}
	return h.parser
}

func checkLines(lines []string) error {
	if len(lines) > maxLines {
		return common.NewValidationError(fmt.Sprintf("at most %d lines per request", maxLines))
	}
	return nil
}

// Parse 解析每一行食材
func (h *IngredientHandler) Parse(c *gin.Context) {
	var req LinesRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	if err := checkLines(req.Lines); err != nil {
		handlers.RespondError(c, err)
		return
	}

	p := h.parserFor(&req)
	parsed := make([]ingredient.Parsed, 0, len(req.Lines))
	for _, line := range req.Lines {
		parsed = append(parsed, p.ParseLine(line))
	}
	c.JSON(http.StatusOK, gin.H{"items": toParsedLines(parsed)})
}

// Aggregate 合併食材行
func (h *IngredientHandler) Aggregate(c *gin.Context) {
	var req LinesRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	if err := checkLines(req.Lines); err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": toItems(h.parserFor(&req).Aggregate(req.Lines))})
}

// Scale 依倍數或份量縮放食材行
func (h *IngredientHandler) Scale(c *gin.Context) {
	var req ScaleRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	if err := checkLines(req.Lines); err != nil {
		handlers.RespondError(c, err)
		return
	}

	var factor float64
	switch {
	case req.Factor != nil:
		factor = *req.Factor
		if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
			handlers.RespondError(c, common.NewValidationError("factor must be a positive number"))
			return
		}
	case req.Servings != 0:
		if req.Servings < recipeService.MinServings || req.Servings > recipeService.MaxServings {
			handlers.RespondError(c, common.NewValidationError(
				fmt.Sprintf("servings must be between %d and %d", recipeService.MinServings, recipeService.MaxServings)))
			return
		}
		if req.OriginalServings < 0 {
			handlers.RespondError(c, common.NewValidationError("original_servings cannot be negative"))
			return
		}
		factor = ingredient.ScaleFactor(req.Servings, req.OriginalServings)
	default:
		handlers.RespondError(c, common.NewValidationError("factor or servings is required"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"factor": factor,
		"lines":  ingredient.ScaleLines(req.Lines, factor),
	})
}
