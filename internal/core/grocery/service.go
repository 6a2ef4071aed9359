package grocery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"meal-planner/internal/core/ingredient"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Source 採買清單的產生方式
type Source string

const (
	SourceAI            Source = "ai"
	SourceDeterministic Source = "deterministic"
	SourceFallback      Source = "fallback" // AI 失敗後改用規則合併
)

// defaultAITimeout AI 合併的預設等待時間
const defaultAITimeout = 30 * time.Second

// IngredientSource 提供一週的食材行
type IngredientSource interface {
	IngredientsForWeek(ctx context.Context, householdID, weekStart string) ([]string, error)
}

// Aggregator 將食材行合併為採買項目
type Aggregator interface {
	Aggregate(ctx context.Context, lines []string) ([]ingredient.AggregatedItem, error)
}

// GenerateResult 產生結果
type GenerateResult struct {
	Count   int    `json:"count"`
	Removed int    `json:"removed"`
	Source  Source `json:"source"`
}

// Option 服務選項
type Option func(*Service)

// WithAIAggregator 啟用 AI 合併，timeout <= 0 時使用預設值
func WithAIAggregator(a Aggregator, timeout time.Duration) Option {
	return func(s *Service) {
		s.ai = a
		if timeout > 0 {
			s.aiTimeout = timeout
		}
	}
}

// WithParser 使用自訂的食材解析器
func WithParser(p *ingredient.Parser) Option {
	return func(s *Service) {
		if p != nil {
			s.parser = p
		}
	}
}

// Service 採買清單服務
type Service struct {
	store       store.GroceryStore
	ingredients IngredientSource
	parser      *ingredient.Parser
	ai          Aggregator
	aiTimeout   time.Duration
	group       singleflight.Group
	// mu 保護讀取後寫入的操作（手動合併、勾選）
	mu sync.Mutex
}

// NewService 創建採買清單服務
func NewService(st store.GroceryStore, src IngredientSource, opts ...Option) *Service {
	s := &Service{
		store:       st,
		ingredients: src,
		parser:      ingredient.NewParser(),
		aiTimeout:   defaultAITimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AIEnabled 是否設定了 AI 合併
func (s *Service) AIEnabled() bool {
	return s.ai != nil
}

// Generate 以規則合併產生一週的採買清單，手動項目保留
func (s *Service) Generate(ctx context.Context, householdID, weekStart string) (*GenerateResult, error) {
	if _, err := common.ParseDate(weekStart); err != nil {
		return nil, err
	}
	return s.do(ctx, "deterministic", householdID, weekStart, func(ctx context.Context) (*GenerateResult, error) {
		lines, err := s.ingredients.IngredientsForWeek(ctx, householdID, weekStart)
		if err != nil {
			return nil, err
		}
		return s.save(ctx, householdID, weekStart, s.parser.Aggregate(lines), SourceDeterministic)
	})
}

// GenerateWithAI 先嘗試 AI 合併，失敗、逾時或結果無法使用時改用規則合併
func (s *Service) GenerateWithAI(ctx context.Context, householdID, weekStart string) (*GenerateResult, error) {
	if _, err := common.ParseDate(weekStart); err != nil {
		return nil, err
	}
	return s.do(ctx, "ai", householdID, weekStart, func(ctx context.Context) (*GenerateResult, error) {
		lines, err := s.ingredients.IngredientsForWeek(ctx, householdID, weekStart)
		if err != nil {
			return nil, err
		}

		if s.ai == nil || len(lines) == 0 {
			return s.save(ctx, householdID, weekStart, s.parser.Aggregate(lines), SourceDeterministic)
		}

		aiCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
		defer cancel()

		start := time.Now()
		items, err := s.ai.Aggregate(aiCtx, lines)
		if err == nil && len(items) == 0 {
			err = common.ErrInvalidAIResult.WithMessage("AI returned no items")
		}
		if err != nil {
			common.LogWarn("AI 合併失敗，改用規則合併",
				zap.String("household_id", householdID),
				zap.Duration("耗時", time.Since(start)),
				zap.Error(err),
			)
			return s.save(ctx, householdID, weekStart, s.parser.Aggregate(lines), SourceFallback)
		}

		return s.save(ctx, householdID, weekStart, items, SourceAI)
	})
}

// do 合併同一家庭同一週的並行請求。共用的執行不受任何單一呼叫者取消影響，
// 各呼叫者只依自己的 ctx 決定是否提前返回
func (s *Service) do(ctx context.Context, kind, householdID, weekStart string, fn func(context.Context) (*GenerateResult, error)) (*GenerateResult, error) {
	key := kind + ":" + householdID + "|" + weekStart
	flightCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return fn(flightCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			common.LogDebug("合併重複的產生請求", zap.String("key", key))
		}
		result := *res.Val.(*GenerateResult)
		return &result, nil
	}
}

// save 以新項目取代所有自動產生的項目
func (s *Service) save(ctx context.Context, householdID, weekStart string, items []ingredient.AggregatedItem, source Source) (*GenerateResult, error) {
	records := make([]*common.GroceryItem, 0, len(items))
	for _, item := range items {
		records = append(records, &common.GroceryItem{
			ID:          common.GenerateUUID(),
			HouseholdID: householdID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			DisplayText: ingredient.FormatDisplayText(item),
			IsGenerated: true,
			WeekStart:   weekStart,
		})
	}

	removed, err := s.store.ReplaceGenerated(ctx, householdID, records)
	if err != nil {
		return nil, fmt.Errorf("failed to save grocery list: %w", err)
	}

	common.LogInfo("採買清單已產生",
		zap.String("household_id", householdID),
		zap.String("week_start", weekStart),
		zap.String("source", string(source)),
		zap.Int("count", len(records)),
		zap.Int("removed", removed),
	)
	return &GenerateResult{Count: len(records), Removed: removed, Source: source}, nil
}

// AddManualItem 新增手動項目；與既有手動項目名稱、單位相同時合併數量
func (s *Service) AddManualItem(ctx context.Context, householdID, text string) (*common.GroceryItem, error) {
	parsed := s.parser.ParseLine(text)
	if parsed.Name == "" {
		return nil, common.NewValidationError("item name is required")
	}
	name := ingredient.Capitalize(parsed.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.store.ListGroceryItems(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery items: %w", err)
	}

	for _, item := range items {
		if item.IsGenerated || !strings.EqualFold(item.Name, name) || item.Unit != parsed.Unit {
			continue
		}

		item.Quantity = mergeQuantity(item.Quantity, parsed.Quantity)
		item.DisplayText = displayText(item)
		item.IsChecked = false
		if err := s.store.UpdateGroceryItem(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to update grocery item: %w", err)
		}
		return item, nil
	}

	item := &common.GroceryItem{
		ID:          common.GenerateUUID(),
		HouseholdID: householdID,
		Name:        name,
		Quantity:    parsed.Quantity,
		Unit:        parsed.Unit,
	}
	item.DisplayText = displayText(item)
	if err := s.store.CreateGroceryItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create grocery item: %w", err)
	}
	return item, nil
}

// mergeQuantity 加總數量；新增的項目沒有數量時視為再多一個，兩邊都沒有時維持沒有
func mergeQuantity(existing, added *float64) *float64 {
	if existing == nil && added == nil {
		return nil
	}
	total := 1.0
	if added != nil {
		total = *added
	}
	if existing != nil {
		total += *existing
	}
	return ingredient.Float(ingredient.RoundUpToQuarter(total))
}

func displayText(item *common.GroceryItem) string {
	return ingredient.FormatDisplayText(ingredient.AggregatedItem{
		Name:     item.Name,
		Quantity: item.Quantity,
		Unit:     item.Unit,
	})
}

// ToggleItem 切換勾選狀態，回傳新的狀態
func (s *Service) ToggleItem(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.store.GetGroceryItem(ctx, id)
	if err != nil {
		return false, err
	}
	item.IsChecked = !item.IsChecked
	if err := s.store.UpdateGroceryItem(ctx, item); err != nil {
		return false, fmt.Errorf("failed to update grocery item: %w", err)
	}
	return item.IsChecked, nil
}

// UncheckAll 取消家庭所有項目的勾選，回傳項目數量
func (s *Service) UncheckAll(ctx context.Context, householdID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.store.ListGroceryItems(ctx, householdID)
	if err != nil {
		return 0, fmt.Errorf("failed to list grocery items: %w", err)
	}
	for _, item := range items {
		if !item.IsChecked {
			continue
		}
		item.IsChecked = false
		if err := s.store.UpdateGroceryItem(ctx, item); err != nil {
			return 0, fmt.Errorf("failed to update grocery item: %w", err)
		}
	}
	return len(items), nil
}

// ClearGenerated 刪除自動產生的項目，回傳刪除數量
func (s *Service) ClearGenerated(ctx context.Context, householdID string) (int, error) {
	n, err := s.store.DeleteGenerated(ctx, householdID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear generated items: %w", err)
	}
	return n, nil
}

// DeleteItem 刪除單一項目
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := s.store.DeleteGroceryItem(ctx, id); err != nil {
		return fmt.Errorf("failed to delete grocery item: %w", err)
	}
	return nil
}

// List 自動產生的項目在前，手動項目在後，各自依名稱排序
func (s *Service) List(ctx context.Context, householdID string) ([]*common.GroceryItem, error) {
	items, err := s.store.ListGroceryItems(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery items: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsGenerated != b.IsGenerated {
			return a.IsGenerated
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		return a.ID < b.ID
	})
	return items, nil
}
