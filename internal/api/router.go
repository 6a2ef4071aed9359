package api

import (
	"fmt"
	"time"

	"meal-planner/internal/api/handlers"
	groceryHandler "meal-planner/internal/api/handlers/grocery"
	"meal-planner/internal/api/handlers/health"
	householdHandler "meal-planner/internal/api/handlers/household"
	mealplanHandler "meal-planner/internal/api/handlers/mealplan"
	recipeHandler "meal-planner/internal/api/handlers/recipe"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/ai/service"
	"meal-planner/internal/core/grocery"
	"meal-planner/internal/core/household"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/recipe"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services 路由使用的領域服務
type Services struct {
	Store      store.Store
	Households *household.Service
	Recipes    *recipe.Service
	MealPlans  *mealplan.Service
	Grocery    *grocery.Service
	// AI 為 nil 表示未啟用 AI 合併
	AI *service.Service
}

// NewServices 以同一個儲存層組裝所有服務
func NewServices(cfg *config.Config, st store.Store, ai *service.Service) *Services {
	recipes := recipe.NewService(st)
	plans := mealplan.NewService(st, recipes)

	var opts []grocery.Option
	if ai != nil {
		opts = append(opts, grocery.WithAIAggregator(grocery.NewAIAggregator(ai), cfg.AI.AggregateTimeout))
	}

	return &Services{
		Store:      st,
		Households: household.NewService(st),
		Recipes:    recipes,
		MealPlans:  plans,
		Grocery:    grocery.NewService(st, plans, opts...),
		AI:         ai,
	}
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc *Services) (*gin.Engine, error) {
	if cfg == nil || svc == nil || svc.Store == nil {
		return nil, fmt.Errorf("router requires config, services and store")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		handlers.RespondError(c, common.ErrMethodNotAllowed)
	})
	router.NoRoute(func(c *gin.Context) {
		handlers.RespondError(c, common.ErrNotFound)
	})

	// 基礎中間件
	router.Use(requestid.New())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// AI 未啟用時不放入介面，避免 nil 指標被當成有效值
	var aiStatus handlers.AIStatus
	var healthAI health.StatusProvider
	if svc.AI != nil {
		aiStatus = svc.AI
		healthAI = svc.AI
	}

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, svc.Store, healthAI)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	ingredients := recipeHandler.NewIngredientHandler()
	recipes := recipeHandler.NewHandler(svc.Recipes)
	households := householdHandler.NewHandler(svc.Households)
	meals := mealplanHandler.NewHandler(svc.MealPlans)
	groceries := groceryHandler.NewHandler(svc.Grocery)
	ai := handlers.NewAIHandler(aiStatus)

	// 只有產生清單需要擋重複提交，新增項目與勾選本身就允許重複
	dedup := middleware.Deduplication(cfg.DedupWindow)

	api := router.Group("/api/v1")
	{
		ingredientGroup := api.Group("/ingredients")
		{
			ingredientGroup.POST("/parse", ingredients.Parse)
			ingredientGroup.POST("/aggregate", ingredients.Aggregate)
			ingredientGroup.POST("/scale", ingredients.Scale)
		}

		api.POST("/households", households.GetOrCreate)

		householdGroup := api.Group("/households/:id", households.Require())
		{
			householdGroup.GET("", households.Get)

			householdGroup.GET("/recipes", recipes.List)
			householdGroup.POST("/recipes", recipes.Create)
			householdGroup.PUT("/recipes/sort-order", recipes.UpdateSortOrder)

			householdGroup.GET("/meals", meals.List)
			householdGroup.GET("/meals/ingredients", meals.Ingredients)
			householdGroup.PUT("/meals/:date", meals.Set)
			householdGroup.DELETE("/meals/:date", meals.Clear)

			householdGroup.GET("/grocery", groceries.List)
			householdGroup.POST("/grocery/generate", dedup, groceries.Generate)
			householdGroup.POST("/grocery/items", groceries.AddItem)
			householdGroup.POST("/grocery/uncheck-all", groceries.UncheckAll)
			householdGroup.DELETE("/grocery/generated", groceries.ClearGenerated)
		}

		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("/:id", recipes.Get)
			recipeGroup.PATCH("/:id", recipes.Update)
			recipeGroup.DELETE("/:id", recipes.Delete)
			recipeGroup.POST("/:id/last-used", recipes.TouchLastUsed)
			recipeGroup.GET("/:id/scaled", recipes.Scaled)
		}

		groceryGroup := api.Group("/grocery/items")
		{
			groceryGroup.POST("/:id/toggle", groceries.Toggle)
			groceryGroup.DELETE("/:id", groceries.Delete)
		}

		api.GET("/ai/status", ai.Status)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("ai_enabled", svc.AI != nil),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("dedup_window", cfg.DedupWindow),
	)

	return router, nil
}
