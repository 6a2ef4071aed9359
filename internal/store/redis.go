package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore 以 JSON 文件儲存在 Redis 的實作
//
// 鍵配置：
//
//	{prefix}:household:{id}              家庭 JSON
//	{prefix}:household-name:{name}       家庭名稱 -> id
//	{prefix}:recipe:{id}                 食譜 JSON
//	{prefix}:recipes:{householdID}       食譜 id 集合
//	{prefix}:mealplans:{householdID}     hash，date -> 計畫 JSON
//	{prefix}:grocery:{id}                採買項目 JSON
//	{prefix}:groceries:{householdID}     採買項目 id 集合
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisClient 建立並測試 Redis 連線
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 已連線", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return client, nil
}

// NewRedisStore 創建 Redis 儲存
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "mp"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(parts ...string) string {
	k := s.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

func (s *RedisStore) getJSON(ctx context.Context, key string, v interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// mgetJSON 批次讀取 JSON 文件，已不存在的鍵會被略過
func mgetJSON[T any](ctx context.Context, client *redis.Client, keys []string) ([]*T, error) {
	result := make([]*T, 0, len(keys))
	if len(keys) == 0 {
		return result, nil
	}
	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var doc T
		if err := json.Unmarshal([]byte(str), &doc); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		result = append(result, &doc)
	}
	return result, nil
}

// CreateHousehold 新增家庭，名稱需唯一
func (s *RedisStore) CreateHousehold(ctx context.Context, h *common.Household) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to encode household: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.key("household-name", h.Name), h.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve household name: %w", err)
	}
	if !ok {
		return common.ErrConflict.WithMessage("household already exists: " + h.Name)
	}

	if err := s.client.Set(ctx, s.key("household", h.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save household: %w", err)
	}
	return nil
}

// GetHousehold 取得家庭
func (s *RedisStore) GetHousehold(ctx context.Context, id string) (*common.Household, error) {
	var h common.Household
	if err := s.getJSON(ctx, s.key("household", id), &h); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound("household", id)
		}
		return nil, fmt.Errorf("failed to load household: %w", err)
	}
	return &h, nil
}

// GetHouseholdByName 依名稱取得家庭
func (s *RedisStore) GetHouseholdByName(ctx context.Context, name string) (*common.Household, error) {
	id, err := s.client.Get(ctx, s.key("household-name", name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound("household", name)
		}
		return nil, fmt.Errorf("failed to resolve household name: %w", err)
	}
	return s.GetHousehold(ctx, id)
}

// CreateRecipe 新增食譜
func (s *RedisStore) CreateRecipe(ctx context.Context, r *common.Recipe) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode recipe: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key("recipe", r.ID), data, 0)
		pipe.SAdd(ctx, s.key("recipes", r.HouseholdID), r.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// GetRecipe 取得食譜
func (s *RedisStore) GetRecipe(ctx context.Context, id string) (*common.Recipe, error) {
	var r common.Recipe
	if err := s.getJSON(ctx, s.key("recipe", id), &r); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound("recipe", id)
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &r, nil
}

// ListRecipes 列出家庭食譜
func (s *RedisStore) ListRecipes(ctx context.Context, householdID string) ([]*common.Recipe, error) {
	ids, err := s.client.SMembers(ctx, s.key("recipes", householdID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key("recipe", id)
	}
	recipes, err := mgetJSON[common.Recipe](ctx, s.client, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// UpdateRecipe 更新食譜
func (s *RedisStore) UpdateRecipe(ctx context.Context, r *common.Recipe) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode recipe: %w", err)
	}
	// XX: 只在鍵存在時寫入
	ok, err := s.client.SetXX(ctx, s.key("recipe", r.ID), data, redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	if !ok {
		return notFound("recipe", r.ID)
	}
	return nil
}

// DeleteRecipe 刪除食譜，不存在時不視為錯誤
func (s *RedisStore) DeleteRecipe(ctx context.Context, id string) error {
	r, err := s.GetRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key("recipe", id))
		pipe.SRem(ctx, s.key("recipes", r.HouseholdID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

// GetMealPlan 取得某天的計畫
func (s *RedisStore) GetMealPlan(ctx context.Context, householdID, date string) (*common.MealPlan, error) {
	data, err := s.client.HGet(ctx, s.key("mealplans", householdID), date).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound("meal plan", householdID+"/"+date)
		}
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}
	var mp common.MealPlan
	if err := json.Unmarshal(data, &mp); err != nil {
		return nil, fmt.Errorf("failed to decode meal plan: %w", err)
	}
	return &mp, nil
}

// PutMealPlan 新增或覆蓋某天的計畫
func (s *RedisStore) PutMealPlan(ctx context.Context, mp *common.MealPlan) error {
	data, err := json.Marshal(cloneMealPlan(mp))
	if err != nil {
		return fmt.Errorf("failed to encode meal plan: %w", err)
	}
	if err := s.client.HSet(ctx, s.key("mealplans", mp.HouseholdID), mp.Date, data).Err(); err != nil {
		return fmt.Errorf("failed to save meal plan: %w", err)
	}
	return nil
}

// DeleteMealPlan 刪除某天的計畫
func (s *RedisStore) DeleteMealPlan(ctx context.Context, householdID, date string) (bool, error) {
	n, err := s.client.HDel(ctx, s.key("mealplans", householdID), date).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete meal plan: %w", err)
	}
	return n > 0, nil
}

// ListMealPlans 列出日期區間內的計畫
func (s *RedisStore) ListMealPlans(ctx context.Context, householdID, start, end string) ([]*common.MealPlan, error) {
	all, err := s.client.HGetAll(ctx, s.key("mealplans", householdID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}

	result := make([]*common.MealPlan, 0)
	for date, data := range all {
		if date < start || date > end {
			continue
		}
		var mp common.MealPlan
		if err := json.Unmarshal([]byte(data), &mp); err != nil {
			return nil, fmt.Errorf("failed to decode meal plan: %w", err)
		}
		result = append(result, &mp)
	}
	sortMealPlans(result)
	return result, nil
}

// CreateGroceryItem 新增採買項目
func (s *RedisStore) CreateGroceryItem(ctx context.Context, item *common.GroceryItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode grocery item: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key("grocery", item.ID), data, 0)
		pipe.SAdd(ctx, s.key("groceries", item.HouseholdID), item.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save grocery item: %w", err)
	}
	return nil
}

// GetGroceryItem 取得採買項目
func (s *RedisStore) GetGroceryItem(ctx context.Context, id string) (*common.GroceryItem, error) {
	var item common.GroceryItem
	if err := s.getJSON(ctx, s.key("grocery", id), &item); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound("grocery item", id)
		}
		return nil, fmt.Errorf("failed to load grocery item: %w", err)
	}
	return &item, nil
}

// ListGroceryItems 列出家庭的採買項目
func (s *RedisStore) ListGroceryItems(ctx context.Context, householdID string) ([]*common.GroceryItem, error) {
	ids, err := s.client.SMembers(ctx, s.key("groceries", householdID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery items: %w", err)
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key("grocery", id)
	}
	items, err := mgetJSON[common.GroceryItem](ctx, s.client, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery items: %w", err)
	}
	return items, nil
}

// UpdateGroceryItem 更新採買項目
func (s *RedisStore) UpdateGroceryItem(ctx context.Context, item *common.GroceryItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode grocery item: %w", err)
	}
	ok, err := s.client.SetXX(ctx, s.key("grocery", item.ID), data, redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to update grocery item: %w", err)
	}
	if !ok {
		return notFound("grocery item", item.ID)
	}
	return nil
}

// DeleteGroceryItem 刪除採買項目，不存在時不視為錯誤
func (s *RedisStore) DeleteGroceryItem(ctx context.Context, id string) error {
	item, err := s.GetGroceryItem(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key("grocery", id))
		pipe.SRem(ctx, s.key("groceries", item.HouseholdID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete grocery item: %w", err)
	}
	return nil
}

// DeleteGenerated 刪除自動產生的項目
func (s *RedisStore) DeleteGenerated(ctx context.Context, householdID string) (int, error) {
	return s.ReplaceGenerated(ctx, householdID, nil)
}

// ReplaceGenerated 在同一個 MULTI/EXEC 中刪除舊項目並寫入新項目
func (s *RedisStore) ReplaceGenerated(ctx context.Context, householdID string, items []*common.GroceryItem) (int, error) {
	existing, err := s.ListGroceryItems(ctx, householdID)
	if err != nil {
		return 0, err
	}

	encoded := make(map[string][]byte, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return 0, fmt.Errorf("failed to encode grocery item: %w", err)
		}
		encoded[item.ID] = data
	}

	setKey := s.key("groceries", householdID)
	removed := 0
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, item := range existing {
			if !item.IsGenerated {
				continue
			}
			pipe.Del(ctx, s.key("grocery", item.ID))
			pipe.SRem(ctx, setKey, item.ID)
			removed++
		}
		for id, data := range encoded {
			pipe.Set(ctx, s.key("grocery", id), data, 0)
			pipe.SAdd(ctx, setKey, id)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to replace generated items: %w", err)
	}
	return removed, nil
}

// Ping 檢查 Redis 連線
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉 Redis 連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
