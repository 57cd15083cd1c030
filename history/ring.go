// Package history provides fixed-capacity rolling buffers for time-series
// samples. Once full, every push discards the oldest element.
package history

// Ring is a fixed-capacity sequence that overwrites its oldest element when a
// value is pushed while full. Index 0 is always the oldest element.
type Ring[T any] struct {
	data []T
	head int // physical index of the oldest element
	size int
}

// NewRing allocates a ring holding at most capacity elements. It panics if
// capacity is not positive.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("history: ring capacity must be positive")
	}
	return &Ring[T]{data: make([]T, capacity)}
}

// Push appends v, dropping the oldest element if the ring is full.
func (r *Ring[T]) Push(v T) {
	if r.size < len(r.data) {
		r.data[(r.head+r.size)%len(r.data)] = v
		r.size++
		return
	}
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
}

// At returns the i-th element, oldest first. i must be below Len.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.size {
		panic("history: index out of range")
	}
	return r.data[(r.head+i)%len(r.data)]
}

// Newest returns the most recently pushed element and whether there is one.
func (r *Ring[T]) Newest() (T, bool) {
	if r.size == 0 {
		var zero T
		return zero, false
	}
	return r.At(r.size - 1), true
}

func (r *Ring[T]) Len() int   { return r.size }
func (r *Ring[T]) Cap() int   { return len(r.data) }
func (r *Ring[T]) Full() bool { return r.size == len(r.data) }

// CopyTo copies the elements oldest first into dst and returns how many were
// copied.
func (r *Ring[T]) CopyTo(dst []T) int {
	n := min(len(dst), r.size)
	first := min(n, len(r.data)-r.head)
	copy(dst, r.data[r.head:r.head+first])
	copy(dst[first:n], r.data[:n-first])
	return n
}

// Values returns a newly allocated oldest-first copy of the contents.
func (r *Ring[T]) Values() []T {
	out := make([]T, r.size)
	r.CopyTo(out)
	return out
}

// Reset empties the ring without releasing its storage.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.data {
		r.data[i] = zero
	}
	r.head, r.size = 0, 0
}
