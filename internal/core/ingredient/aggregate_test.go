package ingredient

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []AggregatedItem
	}{
		{
			name:  "sums same name and unit",
			lines: []string{"2 cups flour", "1 cup flour"},
			want:  []AggregatedItem{{Name: "Flour", Quantity: Float(3), Unit: "cup"}},
		},
		{
			name:  "different units stay separate",
			lines: []string{"1 tsp salt", "pinch of salt"},
			want: []AggregatedItem{
				{Name: "Salt", Quantity: nil, Unit: "pinch"},
				{Name: "Salt", Quantity: Float(1), Unit: "tsp"},
			},
		},
		{
			name:  "quantity-less member does not erase the sum",
			lines: []string{"2 eggs", "eggs"},
			want:  []AggregatedItem{{Name: "Egg", Quantity: Float(2)}},
		},
		{
			name:  "no quantities stays absent",
			lines: []string{"salt", "Salt"},
			want:  []AggregatedItem{{Name: "Salt"}},
		},
		{
			name:  "unit-less and unit-bearing never merge",
			lines: []string{"1 cup flour", "flour"},
			want: []AggregatedItem{
				{Name: "Flour"},
				{Name: "Flour", Quantity: Float(1), Unit: "cup"},
			},
		},
		{
			name:  "rounds up to quarter",
			lines: []string{"2.1 cups rice"},
			want:  []AggregatedItem{{Name: "Rice", Quantity: Float(2.25), Unit: "cup"}},
		},
		{
			name:  "skips empty names",
			lines: []string{"", "   ", "3 cups", "1 onion"},
			want:  []AggregatedItem{{Name: "Onion", Quantity: Float(1)}},
		},
		{
			name:  "sorted by name",
			lines: []string{"1 zucchini", "2 apples", "banana"},
			want: []AggregatedItem{
				{Name: "Apple", Quantity: Float(2)},
				{Name: "Banana"},
				{Name: "Zucchini", Quantity: Float(1)},
			},
		},
		{
			name:  "empty input",
			lines: nil,
			want:  []AggregatedItem{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.lines))
		})
	}
}

func TestRoundUpToQuarter(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2.1, 2.25},
		{2.3, 2.5},
		{2.5, 2.5},
		{2.0, 2.0},
		{0.1 + 0.2, 0.5},
		{0, 0},
		{0.01, 0.25},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundUpToQuarter(tt.in), "%v", tt.in)
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	lines := []string{
		"2 cups flour", "1 cup flour", "1 tsp salt", "pinch of salt",
		"3 tomatoes", "1 tomato", "2.1 lbs chicken", "olive oil",
	}
	first := Aggregate(lines)

	reparsed := make([]Parsed, 0, len(first))
	firstText := make([]string, 0, len(first))
	for _, item := range first {
		firstText = append(firstText, FormatDisplayText(item))
		reparsed = append(reparsed, item.ToParsed())
	}

	second := AggregateParsed(reparsed)
	assert.Equal(t, first, second)

	secondText := make([]string, 0, len(second))
	for _, item := range second {
		secondText = append(secondText, FormatDisplayText(item))
	}
	assert.Equal(t, firstText, secondText)
}

func TestAggregateIgnoresInputOrder(t *testing.T) {
	lines := []string{"2 cups flour", "1 tsp salt", "1 cup flour", "pinch of salt", "2 eggs", "egg"}
	reversed := make([]string, len(lines))
	for i, line := range lines {
		reversed[len(lines)-1-i] = line
	}

	assert.Equal(t, Aggregate(lines), Aggregate(reversed))
}

func TestAggregateOutputIsSorted(t *testing.T) {
	got := Aggregate([]string{"Yams", "2 cups Apple juice", "banana", "1 can Corn", "apricots", "1 lb beef"})
	require.NotEmpty(t, got)

	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
		return strings.ToLower(got[i].Name) < strings.ToLower(got[j].Name)
	}))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Flour", Capitalize("flour"))
	assert.Equal(t, "Épices", Capitalize("épices"))
	assert.Equal(t, "", Capitalize(""))
}
