package quant

// QuantizeSlice encodes src into dst over r and returns the number of values
// written, which is the shorter of the two lengths.
func QuantizeSlice[C Code](dst []C, src []float32, r Range) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = Encode[C](src[i], r.Min, r.Max)
	}
	return n
}

// DequantizeSlice decodes src into dst over r and returns the number of values
// written.
func DequantizeSlice[C Code](dst []float32, src []C, r Range) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = Decode(src[i], r.Min, r.Max)
	}
	return n
}

// Table8 holds the decoded value of every 8-bit code over one Range, so a
// decode becomes a single indexed load.
type Table8 [256]float32

// NewTable8 builds the lookup table for r.
func NewTable8(r Range) *Table8 {
	t := new(Table8)
	t.Fill(r)
	return t
}

// Fill recomputes t for r in place.
func (t *Table8) Fill(r Range) {
	for c := range t {
		t[c] = Decode(uint8(c), r.Min, r.Max)
	}
}
