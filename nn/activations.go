package nn

import "math"

// openOne is the largest float32 below 1. tanh of a large sum rounds to ±1 in
// float32; outputs are pinned to ±openOne so they stay inside (-1, 1).
var openOne = math.Nextafter32(1, 0)

// activate applies tanh to an accumulated pre-activation sum.
func activate(v float64) float32 {
	t := float32(math.Tanh(v))
	if t > openOne {
		return openOne
	}
	if t < -openOne {
		return -openOne
	}
	return t
}
