package quant

// Bounds fixes the range of a Small scalar at compile time. Implementations are
// expected to be empty structs returning constants.
type Bounds interface {
	Bounds() (lo, hi float32)
}

// Unit bounds a Small to [0, 1].
type Unit struct{}

func (Unit) Bounds() (float32, float32) { return 0, 1 }

// Signed bounds a Small to [-1, 1].
type Signed struct{}

func (Signed) Bounds() (float32, float32) { return -1, 1 }

// Small is a float stored as a 16-bit code over the bounds of B.
type Small[B Bounds] struct {
	code uint16
}

// SmallOf encodes f, saturating at the bounds of B.
func SmallOf[B Bounds](f float32) Small[B] {
	var b B
	lo, hi := b.Bounds()
	return Small[B]{code: Encode[uint16](f, lo, hi)}
}

// SmallFromCode wraps a raw code.
func SmallFromCode[B Bounds](c uint16) Small[B] {
	return Small[B]{code: c}
}

// Float decodes s.
func (s Small[B]) Float() float32 {
	var b B
	lo, hi := b.Bounds()
	return Decode(s.code, lo, hi)
}

// Code returns the stored code.
func (s Small[B]) Code() uint16 { return s.code }

// Set replaces the stored value with the encoding of f.
func (s *Small[B]) Set(f float32) {
	*s = SmallOf[B](f)
}
