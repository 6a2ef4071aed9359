package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-planner/internal/api"
	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/openrouter"
	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/core/ai/service"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// shutdownTimeout 等待進行中請求完成的時間
const shutdownTimeout = 10 * time.Second

func main() {
	// 載入設定（包含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogMode, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("env", cfg.App.Env),
		zap.String("store_driver", cfg.Store.Driver),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.Bool("openrouter_enabled", cfg.OpenRouter.Enabled),
		zap.String("openrouter_api_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
	)

	if err := run(cfg); err != nil {
		common.LogError("Server stopped with error", zap.Error(err))
		common.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.Store.Driver == "redis" || (cfg.Cache.Enabled && cfg.Cache.Driver == "redis") {
		client, err := store.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return err
		}
		redisClient = client
	}

	st := newStore(cfg, redisClient)
	defer func() {
		if err := st.Close(); err != nil {
			common.LogWarn("Failed to close store", zap.Error(err))
		}
		// RedisStore 會自行關閉連線
		if redisClient != nil && cfg.Store.Driver != "redis" {
			_ = redisClient.Close()
		}
	}()

	aiService := newAIService(cfg, redisClient)
	if aiService != nil {
		defer func() {
			if err := aiService.Close(); err != nil {
				common.LogWarn("Failed to close AI service", zap.Error(err))
			}
		}()
	}

	services := api.NewServices(cfg, st, aiService)

	if name := cfg.App.DefaultHousehold; name != "" {
		hh, err := services.Households.GetOrCreate(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to ensure default household: %w", err)
		}
		common.LogInfo("預設家庭", zap.String("id", hh.ID), zap.String("name", hh.Name))
	}

	router, err := api.SetupRouter(cfg, services)
	if err != nil {
		return fmt.Errorf("failed to setup router: %w", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		common.LogInfo(common.MsgServerStarting,
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 等待中斷信號或服務器錯誤
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-quit:
	}

	common.LogInfo(common.MsgServerShutdown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	common.LogInfo(common.MsgServerExited)
	return nil
}

// newStore 依設定選擇儲存層
func newStore(cfg *config.Config, client *redis.Client) store.Store {
	if cfg.Store.Driver == "redis" {
		return store.NewRedisStore(client, cfg.Store.KeyPrefix)
	}
	return store.NewMemoryStore()
}

// newCache 依設定選擇 AI 回應快取，停用時回傳 nil
func newCache(cfg *config.Config, client *redis.Client) cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.Driver == "redis" {
		return cache.NewService(client, &cfg.Cache, cfg.Store.KeyPrefix)
	}
	return cache.NewManager(&cfg.Cache)
}

// newAIService OpenRouter 未啟用時回傳 nil，採買清單只使用規則合併
func newAIService(cfg *config.Config, client *redis.Client) *service.Service {
	if !cfg.OpenRouter.Enabled {
		common.LogInfo("AI aggregation disabled")
		return nil
	}

	p := openrouter.NewClient(provider.Config{
		APIKey:      cfg.OpenRouter.APIKey,
		BaseURL:     cfg.OpenRouter.BaseURL,
		Model:       cfg.OpenRouter.Model,
		MaxTokens:   cfg.OpenRouter.MaxTokens,
		Temperature: cfg.OpenRouter.Temperature,
		Timeout:     cfg.OpenRouter.Timeout,
		MaxRetries:  cfg.OpenRouter.MaxRetries,
	})

	c := newCache(cfg, client)
	common.LogInfo("AI aggregation enabled",
		zap.String("model", p.GetModel()),
		zap.Duration("timeout", p.GetTimeout()),
		zap.Bool("cache", c != nil),
		zap.Int("queue_workers", cfg.Queue.Workers),
	)
	return service.NewService(p, c, &cfg.Queue)
}
