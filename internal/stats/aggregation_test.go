package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var nan = math.NaN()

func TestAggregationsSkipNaN(t *testing.T) {
	values := []float64{3, nan, 1, 2, nan}

	assert.Equal(t, 2.0, Mean(values))
	assert.Equal(t, 2.0, Median(values))
	assert.Equal(t, 1.0, Min(values))
	assert.Equal(t, 3.0, Max(values))
	assert.Len(t, Valid(values), 3)
}

func TestAggregationsEmpty(t *testing.T) {
	for _, values := range [][]float64{nil, {nan, nan}} {
		assert.True(t, math.IsNaN(Mean(values)))
		assert.True(t, math.IsNaN(Median(values)))
		assert.True(t, math.IsNaN(Min(values)))
		assert.True(t, math.IsNaN(Max(values)))
		assert.True(t, math.IsNaN(ModeMax(values)))
		assert.Empty(t, Modes(values))
	}
}

func TestMedianEvenCount(t *testing.T) {
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
}

func TestModeMax(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"single mode", []float64{30000, 30000, 29000, 31000}, 30000},
		{"tie takes largest", []float64{35000, 35000, 12000, 12000, 100}, 35000},
		{"all distinct", []float64{1, 5, 3}, 5},
		{"negative values", []float64{-64, -64, -128}, -64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ModeMax(tt.values))
		})
	}
}

func TestModesSorted(t *testing.T) {
	assert.Equal(t, []float64{1, 2}, Modes([]float64{2, 1, 2, 1, 3}))
}
