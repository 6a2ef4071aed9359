package store

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreSuite 兩種實作共用的行為測試
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("households", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		h := &common.Household{ID: common.GenerateUUID(), Name: "Home", CreatedAt: time.Now().UTC()}
		require.NoError(t, s.CreateHousehold(ctx, h))

		got, err := s.GetHousehold(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, "Home", got.Name)

		byName, err := s.GetHouseholdByName(ctx, "Home")
		require.NoError(t, err)
		assert.Equal(t, h.ID, byName.ID)

		_, err = s.GetHouseholdByName(ctx, "Elsewhere")
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("recipes", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		hid := common.GenerateUUID()

		r := &common.Recipe{
			ID:          common.GenerateUUID(),
			HouseholdID: hid,
			Title:       "Pancakes",
			Ingredients: []string{"2 cups flour", "2 eggs"},
			Servings:    common.IntPtr(4),
			SortOrder:   1,
			LastUsed:    time.Now().UTC().Truncate(time.Millisecond),
		}
		require.NoError(t, s.CreateRecipe(ctx, r))

		// 呼叫端修改不影響已儲存的資料
		r.Ingredients[0] = "mutated"

		got, err := s.GetRecipe(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"2 cups flour", "2 eggs"}, got.Ingredients)
		assert.Equal(t, 4, *got.Servings)

		got.Title = "Crepes"
		require.NoError(t, s.UpdateRecipe(ctx, got))
		again, err := s.GetRecipe(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "Crepes", again.Title)

		other := &common.Recipe{ID: common.GenerateUUID(), HouseholdID: common.GenerateUUID(), Title: "Other"}
		require.NoError(t, s.CreateRecipe(ctx, other))

		list, err := s.ListRecipes(ctx, hid)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, r.ID, list[0].ID)

		require.NoError(t, s.DeleteRecipe(ctx, r.ID))
		require.NoError(t, s.DeleteRecipe(ctx, r.ID))
		_, err = s.GetRecipe(ctx, r.ID)
		assert.True(t, errors.Is(err, common.ErrNotFound))

		err = s.UpdateRecipe(ctx, r)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("meal plans", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		hid := common.GenerateUUID()

		for _, date := range []string{"2025-01-22", "2025-01-20", "2025-01-27", "2025-01-19"} {
			require.NoError(t, s.PutMealPlan(ctx, &common.MealPlan{
				ID: common.GenerateUUID(), HouseholdID: hid, Date: date, RecipeID: "r-" + date,
			}))
		}
		// 同一天覆蓋
		require.NoError(t, s.PutMealPlan(ctx, &common.MealPlan{
			ID: common.GenerateUUID(), HouseholdID: hid, Date: "2025-01-22", RecipeID: "r-new",
		}))

		got, err := s.GetMealPlan(ctx, hid, "2025-01-22")
		require.NoError(t, err)
		assert.Equal(t, "r-new", got.RecipeID)

		list, err := s.ListMealPlans(ctx, hid, "2025-01-20", "2025-01-26")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "2025-01-20", list[0].Date)
		assert.Equal(t, "2025-01-22", list[1].Date)

		deleted, err := s.DeleteMealPlan(ctx, hid, "2025-01-20")
		require.NoError(t, err)
		assert.True(t, deleted)
		deleted, err = s.DeleteMealPlan(ctx, hid, "2025-01-20")
		require.NoError(t, err)
		assert.False(t, deleted)

		_, err = s.GetMealPlan(ctx, hid, "2025-01-20")
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("grocery items", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		hid := common.GenerateUUID()

		manual := &common.GroceryItem{ID: common.GenerateUUID(), HouseholdID: hid, Name: "Milk", DisplayText: "Milk"}
		gen1 := &common.GroceryItem{ID: common.GenerateUUID(), HouseholdID: hid, Name: "Flour", Quantity: ptr(3), Unit: "cup", DisplayText: "Flour (3 cup)", IsGenerated: true, WeekStart: "2025-01-20"}
		gen2 := &common.GroceryItem{ID: common.GenerateUUID(), HouseholdID: hid, Name: "Egg", Quantity: ptr(2), DisplayText: "Egg (2)", IsGenerated: true, WeekStart: "2025-01-20"}
		for _, item := range []*common.GroceryItem{manual, gen1, gen2} {
			require.NoError(t, s.CreateGroceryItem(ctx, item))
		}

		got, err := s.GetGroceryItem(ctx, gen1.ID)
		require.NoError(t, err)
		assert.Equal(t, 3.0, *got.Quantity)

		got.IsChecked = true
		require.NoError(t, s.UpdateGroceryItem(ctx, got))

		replacement := &common.GroceryItem{ID: common.GenerateUUID(), HouseholdID: hid, Name: "Rice", DisplayText: "Rice", IsGenerated: true, WeekStart: "2025-01-27"}
		removed, err := s.ReplaceGenerated(ctx, hid, []*common.GroceryItem{replacement})
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		list, err := s.ListGroceryItems(ctx, hid)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Milk", "Rice"}, names(list))

		removed, err = s.DeleteGenerated(ctx, hid)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		require.NoError(t, s.DeleteGroceryItem(ctx, manual.ID))
		list, err = s.ListGroceryItems(ctx, hid)
		require.NoError(t, err)
		assert.Empty(t, list)

		err = s.UpdateGroceryItem(ctx, manual)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}

func ptr(v float64) *float64 {
	return &v
}

func names(items []*common.GroceryItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	sort.Strings(out)
	return out
}
