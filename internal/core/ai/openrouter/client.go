package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	// maxLoggedBody 錯誤日誌中保留的回應長度
	maxLoggedBody = 512
)

// Client OpenRouter API 客戶端
type Client struct {
	client *resty.Client
	config provider.Config
}

var _ provider.Provider = (*Client)(nil)

// chatRequest chat completions 請求
type chatRequest struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
	Stop        []string           `json:"stop,omitempty"`
}

// chatResponse chat completions 響應
type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message provider.Message `json:"message"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
}

// apiError 表示 API 錯誤
type apiError struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// NewClient 創建新的 OpenRouter 客戶端
func NewClient(cfg provider.Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// 只重試網路錯誤、限流與服務端錯誤
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", "https://meal-planner.local").
		SetHeader("X-Title", "Meal Planner")

	return &Client{
		client: client,
		config: cfg,
	}
}

// Generate 生成回應
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	body := chatRequest{
		Model:       c.config.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stop:        req.Stop,
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = c.config.MaxTokens
	}
	if body.Temperature == 0 {
		body.Temperature = c.config.Temperature
	}

	common.LogDebug("Sending request to OpenRouter",
		zap.String("model", body.Model),
		zap.Int("messages", len(body.Messages)),
	)

	start := time.Now()
	var result chatResponse
	var apiErr apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		common.LogAICall(body.Model, time.Since(start), err)
		return nil, fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = truncate(resp.String(), maxLoggedBody)
		}
		err := fmt.Errorf("OpenRouter API error (status %d): %s", resp.StatusCode(), msg)
		common.LogAICall(body.Model, time.Since(start), err)
		return nil, err
	}

	if len(result.Choices) == 0 {
		err := fmt.Errorf("no choices in OpenRouter response: %s", truncate(resp.String(), maxLoggedBody))
		common.LogAICall(body.Model, time.Since(start), err)
		return nil, err
	}

	content := result.Choices[0].Message.Content
	if content == "" {
		err := fmt.Errorf("empty content in OpenRouter response")
		common.LogAICall(body.Model, time.Since(start), err)
		return nil, err
	}

	common.LogAICall(body.Model, time.Since(start), nil)

	model := result.Model
	if model == "" {
		model = body.Model
	}
	return &provider.Response{
		Content: content,
		Model:   model,
		Usage:   result.Usage,
	}, nil
}

// GetModel 獲取模型名稱
func (c *Client) GetModel() string {
	return c.config.Model
}

// GetTimeout 獲取請求超時時間
func (c *Client) GetTimeout() time.Duration {
	return c.config.Timeout
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
