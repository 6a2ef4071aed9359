package grocery

import (
	"context"
	"strings"
	"testing"

	"meal-planner/internal/core/ai/service"
	"meal-planner/internal/core/ingredient"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	content string
	err     error
	prompt  string
}

func (f *fakeProcessor) ProcessRequest(_ context.Context, prompt string) (*service.Response, error) {
	f.prompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	return &service.Response{Content: f.content}, nil
}

func TestBuildAggregatePrompt(t *testing.T) {
	prompt := BuildAggregatePrompt([]string{"2 cups flour", "  ", "1 onion"})
	assert.Contains(t, prompt, "1. 2 cups flour\n2. 1 onion\n")
	assert.Contains(t, prompt, "JSON array")
}

func TestAIAggregator(t *testing.T) {
	p := &fakeProcessor{content: "Here you go:\n```json\n" + `[
  {"name": "green onion", "quantity": 3, "unit": null, "originalItems": ["2 scallions", "1 green onion"]},
  {"name": "Flour", "quantity": 2.1, "unit": "cups"},
  {"name": "flour", "quantity": 1, "unit": "cup"},
  {"name": "", "quantity": 1},
  {"name": "salt", "quantity": 0, "unit": "pinch"},
]` + "\n```"}

	items, err := NewAIAggregator(p).Aggregate(context.Background(), []string{"2 scallions", "1 green onion"})
	require.NoError(t, err)
	assert.Equal(t, []ingredient.AggregatedItem{
		{Name: "Flour", Quantity: ingredient.Float(3.25), Unit: "cup"},
		{Name: "Green onion", Quantity: ingredient.Float(3)},
		{Name: "Salt", Unit: "pinch"},
	}, items)
	assert.True(t, strings.Contains(p.prompt, "2 scallions"))
}

func TestAIAggregatorErrors(t *testing.T) {
	_, err := NewAIAggregator(&fakeProcessor{err: common.ErrAIServiceError}).Aggregate(context.Background(), []string{"1 onion"})
	assert.ErrorIs(t, err, common.ErrAIServiceError)

	_, err = NewAIAggregator(&fakeProcessor{content: "sorry, I can't help"}).Aggregate(context.Background(), []string{"1 onion"})
	assert.ErrorIs(t, err, common.ErrInvalidAIResult)
}

func TestParseAIItemsRejectsNegativeQuantity(t *testing.T) {
	_, err := ParseAIItems(`[{"name": "onion", "quantity": -1}]`)
	assert.ErrorIs(t, err, common.ErrInvalidAIResult)
}

func TestParseAIItemsUnquotedKeys(t *testing.T) {
	items, err := ParseAIItems(`[{name: "onion", quantity: 2}]`)
	require.NoError(t, err)
	assert.Equal(t, []ingredient.AggregatedItem{{Name: "Onion", Quantity: ingredient.Float(2)}}, items)
}
