package quant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalibrate(t *testing.T) {
	r := Calibrate([]float32{0.5, -0.25}, nil, []float32{float32(math.NaN()), 1.75, 0})
	assert.Equal(t, Range{Min: -0.25, Max: 1.75}, r)
	assert.NoError(t, r.Validate())

	assert.Equal(t, Range{}, Calibrate())
	assert.Equal(t, Range{}, Calibrate([]float32{float32(math.NaN())}))
	assert.Equal(t, Range{Min: 3, Max: 3}, Calibrate([]float32{3}))
}

func TestWiden(t *testing.T) {
	r := Range{Min: 0, Max: 1}
	assert.Equal(t, Range{Min: -1, Max: 1}, r.Widen(-1))
	assert.Equal(t, Range{Min: 0, Max: 4}, r.Widen(4))
	assert.Equal(t, r, r.Widen(0.5))
	assert.Equal(t, r, r.Widen(float32(math.NaN())))
}

func TestSliceHelpers(t *testing.T) {
	r := Range{Min: -1, Max: 1}
	src := []float32{-1, 0, 1, 2}
	codes := make([]uint8, 3)
	assert.Equal(t, 3, QuantizeSlice(codes, src, r))
	assert.Equal(t, []uint8{0, 128, 255}, codes)

	back := make([]float32, 8)
	assert.Equal(t, 3, DequantizeSlice(back, codes, r))
	assert.InDelta(t, -1, back[0], 1e-6)
	assert.InDelta(t, 0, back[1], float64(r.Step8()))
	assert.InDelta(t, 1, back[2], 1e-6)
	assert.Zero(t, back[3])

	wide := make([]uint16, 4)
	assert.Equal(t, 4, QuantizeSlice(wide, src, r))
	assert.Equal(t, uint16(math.MaxUint16), wide[3])
}

func TestTable8MatchesDecode(t *testing.T) {
	r := Range{Min: -0.3, Max: 2.1}
	tab := NewTable8(r)
	for c := 0; c < 256; c++ {
		assert.Equal(t, r.Decode8(uint8(c)), tab[c])
	}
	tab.Fill(Range{Min: 1, Max: 1})
	assert.Equal(t, float32(1), tab[200])
}
