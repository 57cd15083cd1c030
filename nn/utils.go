package nn

import "math"

// MaxAbsDiff returns the largest absolute difference over the common prefix
// of a and b.
func MaxAbsDiff(a, b []float32) float64 {
	m := 0.0
	for i := range min(len(a), len(b)) {
		m = math.Max(m, math.Abs(float64(a[i])-float64(b[i])))
	}
	return m
}

// MaxAbsDiffBatch is MaxAbsDiff over paired rows.
func MaxAbsDiffBatch(a, b [][]float32) float64 {
	m := 0.0
	for i := range min(len(a), len(b)) {
		m = math.Max(m, MaxAbsDiff(a[i], b[i]))
	}
	return m
}
