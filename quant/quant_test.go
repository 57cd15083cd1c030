package quant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ranges = []Range{
	{Min: 0, Max: 1},
	{Min: -1, Max: 1},
	{Min: -0.1, Max: 0.3},
	{Min: -250, Max: 1e4},
	{Min: 3.5, Max: 3.5000002},
}

func TestEncodeDecodeRoundTrip8(t *testing.T) {
	for _, r := range ranges {
		step := float64(r.Step8())
		for i := 0; i <= 1000; i++ {
			v := r.Min + float32(float64(i)/1000*(float64(r.Max)-float64(r.Min)))
			if v > r.Max {
				v = r.Max
			}
			got := r.Decode8(r.Encode8(v))
			assert.LessOrEqual(t, math.Abs(float64(got)-float64(v)), step*(1+1e-4)+1e-6,
				"range %v value %g decoded %g", r, v, got)
		}
	}
}

func TestEncodeDecodeRoundTrip16(t *testing.T) {
	for _, r := range ranges {
		step := float64(r.Step16())
		for i := 0; i <= 5000; i++ {
			v := r.Min + float32(float64(i)/5000*(float64(r.Max)-float64(r.Min)))
			if v > r.Max {
				v = r.Max
			}
			got := r.Decode16(r.Encode16(v))
			// float32 spacing dominates the 16-bit step on wide ranges
			tol := step + float64(ulp(v)) + float64(ulp(r.Max))
			assert.LessOrEqual(t, math.Abs(float64(got)-float64(v)), tol,
				"range %v value %g decoded %g", r, v, got)
		}
	}
}

func TestEncodeSaturates(t *testing.T) {
	r := Range{Min: -2, Max: 6}
	assert.Equal(t, r.Encode8(r.Min), r.Encode8(-3))
	assert.Equal(t, r.Encode8(r.Min), r.Encode8(float32(math.Inf(-1))))
	assert.Equal(t, r.Encode8(r.Max), r.Encode8(7))
	assert.Equal(t, r.Encode8(r.Max), r.Encode8(math.MaxFloat32))
	assert.Equal(t, uint8(0), r.Encode8(float32(math.NaN())))

	assert.Equal(t, uint8(0), r.Encode8(-2))
	assert.Equal(t, uint8(255), r.Encode8(6))
	assert.Equal(t, uint16(0), r.Encode16(-100))
	assert.Equal(t, uint16(math.MaxUint16), r.Encode16(100))
}

func TestDegenerateRange(t *testing.T) {
	r := Range{Min: 0.75, Max: 0.75}
	require.NoError(t, r.Validate())
	assert.True(t, r.Degenerate())
	for _, v := range []float32{-1, 0.75, 2, float32(math.NaN())} {
		assert.Equal(t, uint8(0), r.Encode8(v))
		assert.Equal(t, uint16(0), r.Encode16(v))
	}
	for c := 0; c < 256; c++ {
		assert.Equal(t, float32(0.75), r.Decode8(uint8(c)))
	}
	assert.Equal(t, float32(0.75), r.Decode16(math.MaxUint16))
	assert.Zero(t, r.Step8())
}

func TestDecodeStaysInRange(t *testing.T) {
	for _, r := range ranges {
		for c := 0; c < 256; c++ {
			v := r.Decode8(uint8(c))
			assert.True(t, r.Contains(v), "range %v code %d decoded %g", r, c, v)
		}
		assert.Equal(t, r.Min, r.Decode8(0))
		assert.Equal(t, r.Max, r.Decode8(255))
	}
}

func TestEncodeRoundsToNearest(t *testing.T) {
	r := Range{Min: 0, Max: 255}
	assert.Equal(t, uint8(10), r.Encode8(10.4))
	assert.Equal(t, uint8(11), r.Encode8(10.6))
	assert.Equal(t, uint8(128), Range{Min: 0, Max: 1}.Encode8(0.5))
}

func TestRangeValidate(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		ok   bool
	}{
		{"unit", Range{0, 1}, true},
		{"degenerate", Range{2, 2}, true},
		{"inverted sentinel", Range{1e9, -1e9}, false},
		{"nan", Range{float32(math.NaN()), 1}, false},
		{"inf", Range{0, float32(math.Inf(1))}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrRange)
			}
		})
	}
}

func ulp(v float32) float32 {
	v = float32(math.Abs(float64(v)))
	return math.Nextafter32(v, float32(math.Inf(1))) - v
}
