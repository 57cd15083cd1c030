package history

// Bits is a rolling sequence of booleans packed eight to a byte. Element i
// lives in byte i/8 at bit i%8. Once full, a push shifts every element one
// position toward index 0 and stores the new value at the last position, so
// the packed bytes always hold the sequence oldest first.
type Bits struct {
	data     []byte
	size     int
	capacity int
}

// NewBits allocates a bit ring holding at most capacity booleans. It panics if
// capacity is not positive.
func NewBits(capacity int) *Bits {
	if capacity <= 0 {
		panic("history: bits capacity must be positive")
	}
	return &Bits{
		data:     make([]byte, (capacity+7)/8),
		capacity: capacity,
	}
}

// At returns the i-th boolean, oldest first.
func (b *Bits) At(i int) bool {
	return b.data[i/8]>>(i%8)&1 != 0
}

// Set overwrites the i-th boolean.
func (b *Bits) Set(i int, v bool) {
	if v {
		b.data[i/8] |= 1 << (i % 8)
	} else {
		b.data[i/8] &^= 1 << (i % 8)
	}
}

// Push appends v, dropping the oldest boolean if full.
func (b *Bits) Push(v bool) {
	if b.size < b.capacity {
		b.Set(b.size, v)
		b.size++
		return
	}
	b.shiftDown()
	b.Set(b.capacity-1, v)
}

// shiftDown moves every bit one position toward index 0. The bit leaving byte
// k+1 enters byte k at bit 7.
func (b *Bits) shiftDown() {
	last := len(b.data) - 1
	for k := 0; k < last; k++ {
		b.data[k] = b.data[k]>>1 | b.data[k+1]<<7
	}
	b.data[last] >>= 1
}

func (b *Bits) Len() int   { return b.size }
func (b *Bits) Cap() int   { return b.capacity }
func (b *Bits) Full() bool { return b.size == b.capacity }

// Count returns the number of true values currently held.
func (b *Bits) Count() int {
	n := 0
	for i := 0; i < b.size; i++ {
		if b.At(i) {
			n++
		}
	}
	return n
}

// Bytes returns the packed storage. It is shared with b.
func (b *Bits) Bytes() []byte { return b.data }
