package stats

import (
	"math"
	"sort"
)

// Aggregations skip NaN samples and return NaN when no valid sample is
// left, so a missing input yields a missing aggregate.

// Valid returns the non-NaN values of a slice.
func Valid(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	var sum float64
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Median calculates the median value
func Median(values []float64) float64 {
	sorted := Valid(values)
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Min returns the minimum value
func Min(values []float64) float64 {
	min := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum value
func Max(values []float64) float64 {
	max := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return max
}

// Modes returns every value that occurs with the highest frequency, in
// ascending order.
func Modes(values []float64) []float64 {
	freq := make(map[float64]int)
	maxFreq := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		freq[v]++
		if freq[v] > maxFreq {
			maxFreq = freq[v]
		}
	}

	var modes []float64
	for v, f := range freq {
		if f == maxFreq {
			modes = append(modes, v)
		}
	}
	sort.Float64s(modes)
	return modes
}

// ModeMax returns the largest of the statistical modes. Ties between
// equally frequent values are broken towards the larger one.
func ModeMax(values []float64) float64 {
	modes := Modes(values)
	if len(modes) == 0 {
		return math.NaN()
	}
	return modes[len(modes)-1]
}
