package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingKeepsLastCapacity(t *testing.T) {
	for _, k := range []int{0, 1, 3, 5, 17} {
		r := NewRing[int](5)
		for i := 0; i < r.Cap()+k; i++ {
			r.Push(i)
		}
		require.Equal(t, 5, r.Len())
		require.True(t, r.Full())
		want := []int{k, k + 1, k + 2, k + 3, k + 4}
		assert.Equal(t, want, r.Values(), "k=%d", k)
		for i, v := range want {
			assert.Equal(t, v, r.At(i))
		}
	}
}

func TestRingPartial(t *testing.T) {
	r := NewRing[float32](4)
	_, ok := r.Newest()
	assert.False(t, ok)

	r.Push(1.5)
	r.Push(2.5)
	assert.Equal(t, 2, r.Len())
	assert.False(t, r.Full())
	assert.Equal(t, []float32{1.5, 2.5}, r.Values())
	newest, ok := r.Newest()
	assert.True(t, ok)
	assert.Equal(t, float32(2.5), newest)
	assert.Panics(t, func() { r.At(2) })
}

func TestRingCopyTo(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 7; i++ {
		r.Push(i)
	}
	dst := make([]int, 2)
	assert.Equal(t, 2, r.CopyTo(dst))
	assert.Equal(t, []int{5, 6}, dst)

	dst = make([]int, 6)
	assert.Equal(t, 3, r.CopyTo(dst))
	assert.Equal(t, []int{5, 6, 7, 0, 0, 0}, dst)
}

func TestRingReset(t *testing.T) {
	r := NewRing[string](2)
	r.Push("a")
	r.Push("b")
	r.Push("c")
	r.Reset()
	assert.Zero(t, r.Len())
	r.Push("d")
	assert.Equal(t, []string{"d"}, r.Values())
}

func TestNewRingRejectsZeroCapacity(t *testing.T) {
	assert.Panics(t, func() { NewRing[int](0) })
}
