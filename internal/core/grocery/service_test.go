package grocery

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"meal-planner/internal/core/ingredient"
	"meal-planner/internal/pkg/common"
	"meal-planner/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const week = "2025-01-20"

type fakeSource struct {
	lines []string
	err   error
}

func (f *fakeSource) IngredientsForWeek(context.Context, string, string) ([]string, error) {
	return f.lines, f.err
}

type fakeAggregator struct {
	calls atomic.Int32
	fn    func(ctx context.Context, lines []string) ([]ingredient.AggregatedItem, error)
}

func (f *fakeAggregator) Aggregate(ctx context.Context, lines []string) ([]ingredient.AggregatedItem, error) {
	f.calls.Add(1)
	return f.fn(ctx, lines)
}

func newTestService(lines []string, opts ...Option) (*Service, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return NewService(st, &fakeSource{lines: lines}, opts...), st
}

func displayTexts(items []*common.GroceryItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.DisplayText)
	}
	return out
}

func TestGenerate(t *testing.T) {
	s, _ := newTestService([]string{"2 cups flour", "1 cup flour", "3 eggs", "salt"})
	ctx := context.Background()

	res, err := s.Generate(ctx, "h1", week)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, SourceDeterministic, res.Source)

	items, err := s.List(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Egg (3)", "Flour (3 cup)", "Salt"}, displayTexts(items))
	for _, item := range items {
		assert.True(t, item.IsGenerated)
		assert.Equal(t, week, item.WeekStart)
		assert.Equal(t, "h1", item.HouseholdID)
	}
}

func TestGenerateReplacesOnlyGeneratedItems(t *testing.T) {
	src := &fakeSource{lines: []string{"1 onion", "2 carrots"}}
	s := NewService(store.NewMemoryStore(), src)
	ctx := context.Background()

	_, err := s.AddManualItem(ctx, "h1", "paper towels")
	require.NoError(t, err)
	_, err = s.Generate(ctx, "h1", week)
	require.NoError(t, err)

	src.lines = []string{"1 lb beef"}
	res, err := s.Generate(ctx, "h1", "2025-01-27")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 2, res.Removed)

	items, err := s.List(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Beef (1 lb)", "Paper towel"}, displayTexts(items))
}

func TestGenerateEmptyWeek(t *testing.T) {
	s, _ := newTestService(nil)
	res, err := s.Generate(context.Background(), "h1", week)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
}

func TestGenerateValidation(t *testing.T) {
	s, _ := newTestService(nil)
	_, err := s.Generate(context.Background(), "h1", "next monday")
	assert.True(t, common.IsValidationError(err))

	_, err = s.GenerateWithAI(context.Background(), "h1", "2025-13-01")
	assert.True(t, common.IsValidationError(err))
}

func TestGenerateSourceError(t *testing.T) {
	boom := errors.New("boom")
	s := NewService(store.NewMemoryStore(), &fakeSource{err: boom})
	_, err := s.Generate(context.Background(), "h1", week)
	assert.ErrorIs(t, err, boom)
}

func TestGenerateWithAI(t *testing.T) {
	agg := &fakeAggregator{fn: func(context.Context, []string) ([]ingredient.AggregatedItem, error) {
		return []ingredient.AggregatedItem{{Name: "Green onion", Quantity: ingredient.Float(3)}}, nil
	}}
	s, _ := newTestService([]string{"2 scallions", "1 green onion"}, WithAIAggregator(agg, time.Second))

	res, err := s.GenerateWithAI(context.Background(), "h1", week)
	require.NoError(t, err)
	assert.Equal(t, SourceAI, res.Source)
	assert.Equal(t, 1, res.Count)

	items, err := s.List(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Green onion (3)"}, displayTexts(items))
}

func TestGenerateWithAIFallsBack(t *testing.T) {
	tests := []struct {
		name string
		fn   func(ctx context.Context, lines []string) ([]ingredient.AggregatedItem, error)
	}{
		{"error", func(context.Context, []string) ([]ingredient.AggregatedItem, error) {
			return nil, common.ErrAIServiceError
		}},
		{"empty result", func(context.Context, []string) ([]ingredient.AggregatedItem, error) {
			return nil, nil
		}},
		{"timeout", func(ctx context.Context, _ []string) ([]ingredient.AggregatedItem, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := &fakeAggregator{fn: tt.fn}
			s, _ := newTestService([]string{"2 cups flour", "1 cup flour"}, WithAIAggregator(agg, 20*time.Millisecond))

			res, err := s.GenerateWithAI(context.Background(), "h1", week)
			require.NoError(t, err)
			assert.Equal(t, SourceFallback, res.Source)
			assert.Equal(t, 1, res.Count)

			items, err := s.List(context.Background(), "h1")
			require.NoError(t, err)
			assert.Equal(t, []string{"Flour (3 cup)"}, displayTexts(items))
		})
	}
}

func TestGenerateWithAIDisabled(t *testing.T) {
	s, _ := newTestService([]string{"1 onion"})
	assert.False(t, s.AIEnabled())

	res, err := s.GenerateWithAI(context.Background(), "h1", week)
	require.NoError(t, err)
	assert.Equal(t, SourceDeterministic, res.Source)
	assert.Equal(t, 1, res.Count)
}

func TestGenerateWithAICallerCanceled(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	agg := &fakeAggregator{fn: func(ctx context.Context, _ []string) ([]ingredient.AggregatedItem, error) {
		close(started)
		<-release
		return []ingredient.AggregatedItem{{Name: "Onion", Quantity: ingredient.Float(1)}}, nil
	}}
	s, st := newTestService([]string{"1 onion"}, WithAIAggregator(agg, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.GenerateWithAI(ctx, "h1", week)
		done <- err
	}()

	<-started
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("canceled caller did not return")
	}

	close(release)
	require.Eventually(t, func() bool {
		items, err := st.ListGroceryItems(context.Background(), "h1")
		return err == nil && len(items) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestGenerateWithAISharedCallSurvivesOtherCallerCancel(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	agg := &fakeAggregator{fn: func(ctx context.Context, _ []string) ([]ingredient.AggregatedItem, error) {
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return []ingredient.AggregatedItem{{Name: "Onion", Quantity: ingredient.Float(1)}}, nil
	}}
	s, _ := newTestService([]string{"1 onion"}, WithAIAggregator(agg, time.Second))

	ctxA, cancelA := context.WithCancel(context.Background())
	doneA := make(chan error, 1)
	go func() {
		_, err := s.GenerateWithAI(ctxA, "h1", week)
		doneA <- err
	}()
	<-started

	type outcome struct {
		res *GenerateResult
		err error
	}
	doneB := make(chan outcome, 1)
	go func() {
		res, err := s.GenerateWithAI(context.Background(), "h1", week)
		doneB <- outcome{res, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-doneA, context.Canceled)

	close(release)
	b := <-doneB
	require.NoError(t, b.err)
	assert.Equal(t, SourceAI, b.res.Source)
	assert.Equal(t, 1, b.res.Count)
	assert.Equal(t, int32(1), agg.calls.Load())
}

func TestGenerateWithAIDeduplicatesConcurrentCalls(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	agg := &fakeAggregator{fn: func(context.Context, []string) ([]ingredient.AggregatedItem, error) {
		once.Do(func() { close(started) })
		<-release
		return []ingredient.AggregatedItem{{Name: "Onion", Quantity: ingredient.Float(1)}}, nil
	}}
	s, _ := newTestService([]string{"1 onion"}, WithAIAggregator(agg, time.Second))

	var wg sync.WaitGroup
	results := make([]*GenerateResult, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := s.GenerateWithAI(context.Background(), "h1", week)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}

	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), agg.calls.Load())
	for _, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, SourceAI, res.Source)
	}
}

func TestAddManualItemMerges(t *testing.T) {
	s, _ := newTestService(nil)
	ctx := context.Background()

	first, err := s.AddManualItem(ctx, "h1", "2 cups milk")
	require.NoError(t, err)
	assert.Equal(t, "Milk (2 cup)", first.DisplayText)
	assert.False(t, first.IsGenerated)

	_, err = s.ToggleItem(ctx, first.ID)
	require.NoError(t, err)

	merged, err := s.AddManualItem(ctx, "h1", "1 cup Milk")
	require.NoError(t, err)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, ingredient.Float(3), merged.Quantity)
	assert.Equal(t, "Milk (3 cup)", merged.DisplayText)
	assert.False(t, merged.IsChecked)

	other, err := s.AddManualItem(ctx, "h1", "1 liter milk")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	items, err := s.List(ctx, "h1")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestAddManualItemQuantityRules(t *testing.T) {
	s, _ := newTestService(nil)
	ctx := context.Background()

	_, err := s.AddManualItem(ctx, "h1", "2 eggs")
	require.NoError(t, err)
	item, err := s.AddManualItem(ctx, "h1", "eggs")
	require.NoError(t, err)
	assert.Equal(t, ingredient.Float(3), item.Quantity)

	_, err = s.AddManualItem(ctx, "h1", "salt")
	require.NoError(t, err)
	item, err = s.AddManualItem(ctx, "h1", "Salt")
	require.NoError(t, err)
	assert.Nil(t, item.Quantity)
	assert.Equal(t, "Salt", item.DisplayText)

	_, err = s.AddManualItem(ctx, "h1", "basil")
	require.NoError(t, err)
	item, err = s.AddManualItem(ctx, "h1", "2 basil")
	require.NoError(t, err)
	assert.Equal(t, ingredient.Float(2), item.Quantity)
}

func TestAddManualItemDoesNotMergeIntoGenerated(t *testing.T) {
	s, _ := newTestService([]string{"1 cup milk"})
	ctx := context.Background()

	_, err := s.Generate(ctx, "h1", week)
	require.NoError(t, err)
	item, err := s.AddManualItem(ctx, "h1", "1 cup milk")
	require.NoError(t, err)
	assert.False(t, item.IsGenerated)

	items, err := s.List(ctx, "h1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].IsGenerated)
	assert.False(t, items[1].IsGenerated)
}

func TestAddManualItemRequiresName(t *testing.T) {
	s, _ := newTestService(nil)
	for _, text := range []string{"", "   ", "2 cups"} {
		_, err := s.AddManualItem(context.Background(), "h1", text)
		assert.True(t, common.IsValidationError(err), text)
	}
}

func TestToggleAndUncheckAll(t *testing.T) {
	s, _ := newTestService(nil)
	ctx := context.Background()

	a, err := s.AddManualItem(ctx, "h1", "apples")
	require.NoError(t, err)
	_, err = s.AddManualItem(ctx, "h1", "bread")
	require.NoError(t, err)

	checked, err := s.ToggleItem(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, checked)
	checked, err = s.ToggleItem(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, checked)

	_, err = s.ToggleItem(ctx, a.ID)
	require.NoError(t, err)
	n, err := s.UncheckAll(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	items, err := s.List(ctx, "h1")
	require.NoError(t, err)
	for _, item := range items {
		assert.False(t, item.IsChecked)
	}

	_, err = s.ToggleItem(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClearGeneratedAndDelete(t *testing.T) {
	s, _ := newTestService([]string{"1 onion", "2 carrots"})
	ctx := context.Background()

	_, err := s.Generate(ctx, "h1", week)
	require.NoError(t, err)
	manual, err := s.AddManualItem(ctx, "h1", "soap")
	require.NoError(t, err)

	n, err := s.ClearGenerated(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.DeleteItem(ctx, manual.ID))
	require.NoError(t, s.DeleteItem(ctx, manual.ID))

	items, err := s.List(ctx, "h1")
	require.NoError(t, err)
	assert.Empty(t, items)
}
