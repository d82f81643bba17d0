package engine

import "math"

// Intn maps one draw to an integer in [0, n) using the floor formula.
// The clamp guards against a source yielding exactly 1.0 through rounding.
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(math.Floor(src.Float64() * float64(n)))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// IntBetween maps one draw to an integer in [lo, hi).
func IntBetween(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + Intn(src, hi-lo)
}

// Shuffle performs a Fisher-Yates shuffle over n elements, consuming n-1
// draws. swap exchanges elements i and j.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := Intn(src, i+1)
		swap(i, j)
	}
}

// WeightedIndex selects an index with probability proportional to its
// weight using single-pass cumulative selection against one draw.
// Returns 0 if weights is empty or sums to zero.
func WeightedIndex(src Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	r := src.Float64() * total
	for i, w := range weights {
		r -= w
		if r <= 0 {
			return i
		}
	}
	return len(weights) - 1
}

// Jitter maps one draw to a uniform value in [-span/2, span/2).
func Jitter(src Source, span float64) float64 {
	return (src.Float64() - 0.5) * span
}
