package quant

import "math"

// Calibrate discovers the smallest Range covering every value in sets. NaN
// values are skipped. With no usable values the zero Range is returned.
func Calibrate(sets ...[]float32) Range {
	var (
		r    Range
		seen bool
	)
	for _, set := range sets {
		for _, v := range set {
			if math.IsNaN(float64(v)) {
				continue
			}
			if !seen {
				r = Range{Min: v, Max: v}
				seen = true
				continue
			}
			if v < r.Min {
				r.Min = v
			}
			if v > r.Max {
				r.Max = v
			}
		}
	}
	return r
}

// Widen returns r grown to include v.
func (r Range) Widen(v float32) Range {
	if math.IsNaN(float64(v)) {
		return r
	}
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
	return r
}
