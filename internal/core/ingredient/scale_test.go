package ingredient

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		factor float64
		want   string
	}{
		{"fractional result", "1 cup flour", 1.5, "1 1/2 cup flour"},
		{"mixed number doubled", "2 1/2 cups milk", 2, "5 cups milk"},
		{"third tripled", "1/3 cup oil", 3, "1 cup oil"},
		{"rounds to eighth", "0.3333 cup sugar", 1, "3/8 cup sugar"},
		{"halved", "3 eggs", 0.5, "1 1/2 eggs"},
		{"quantity only", "4", 0.5, "2"},
		{"no quantity passes through", "pinch of salt", 2, "pinch of salt"},
		{"zero factor passes through", "2 cups flour", 0, "2 cups flour"},
		{"negative factor passes through", "2 cups flour", -1, "2 cups flour"},
		{"infinite factor passes through", "2 cups flour", math.Inf(1), "2 cups flour"},
		{"zero denominator passes through", "1/0 cup flour", 2, "1/0 cup flour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScaleLine(tt.line, tt.factor))
		})
	}
}

func TestScaleQuantity(t *testing.T) {
	assert.Equal(t, 0.375, ScaleQuantity(0.3333, 1))
	assert.Equal(t, 1.5, ScaleQuantity(1, 1.5))
	assert.Equal(t, 0.0, ScaleQuantity(0.05, 1))
	assert.Equal(t, 6.0, ScaleQuantity(2, 3))
}

func TestScaleFactor(t *testing.T) {
	assert.Equal(t, 2.0, ScaleFactor(8, 4))
	assert.Equal(t, 0.5, ScaleFactor(2, 4))
	assert.Equal(t, 1.0, ScaleFactor(6, 0))
}

func TestScaleLines(t *testing.T) {
	got := ScaleLines([]string{"1 cup rice", "salt to taste", "2 cloves garlic"}, 2)
	assert.Equal(t, []string{"2 cup rice", "salt to taste", "4 cloves garlic"}, got)
}
