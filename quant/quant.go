// Package quant maps bounded float32 values to and from fixed-width unsigned codes.
//
// A code c of width W represents
//
//	lo + float32(c) / MaxCode[W] * (hi - lo)
//
// Encoding clamps out-of-range values instead of rejecting them, so none of the
// functions in this package can fail at runtime. A degenerate range (lo == hi)
// always decodes to lo.
package quant

import (
	"errors"
	"fmt"
	"math"
)

// Code is the set of storage widths supported by Encode and Decode.
type Code interface {
	~uint8 | ~uint16
}

// ErrRange is returned by Range.Validate for inverted or non-finite bounds.
var ErrRange = errors.New("quant: invalid range")

// MaxCode returns the largest representable code of C as a float64.
func MaxCode[C Code]() float64 {
	return float64(^C(0))
}

// Step returns the distance between two adjacent codes of C over [lo, hi].
func Step[C Code](lo, hi float32) float32 {
	if !(hi > lo) {
		return 0
	}
	return float32((float64(hi) - float64(lo)) / MaxCode[C]())
}

// Encode clamps v to [lo, hi] and maps it onto 0..MaxCode[C], rounding to the
// nearest code. NaN saturates to the lower bound.
func Encode[C Code](v, lo, hi float32) C {
	if !(hi > lo) || !(v > lo) {
		return 0
	}
	if v >= hi {
		return ^C(0)
	}
	n := (float64(v) - float64(lo)) / (float64(hi) - float64(lo)) * MaxCode[C]()
	return C(n + 0.5)
}

// Decode is the inverse of Encode up to one quantization step. The result is
// always inside [lo, hi].
func Decode[C Code](c C, lo, hi float32) float32 {
	if !(hi > lo) {
		return lo
	}
	v := float32(float64(lo) + float64(c)/MaxCode[C]()*(float64(hi)-float64(lo)))
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Range is a decode range shared by a set of codes.
type Range struct {
	Min float32 `json:"min"`
	Max float32 `json:"max"`
}

// Validate reports whether r is usable for decoding: both bounds finite and
// Min <= Max.
func (r Range) Validate() error {
	if !finite(r.Min) || !finite(r.Max) {
		return fmt.Errorf("%w: non-finite bound [%g, %g]", ErrRange, r.Min, r.Max)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: min %g greater than max %g", ErrRange, r.Min, r.Max)
	}
	return nil
}

// Degenerate reports whether every code in r decodes to the same value.
func (r Range) Degenerate() bool { return r.Min == r.Max }

func (r Range) Encode8(v float32) uint8   { return Encode[uint8](v, r.Min, r.Max) }
func (r Range) Decode8(c uint8) float32   { return Decode(c, r.Min, r.Max) }
func (r Range) Encode16(v float32) uint16 { return Encode[uint16](v, r.Min, r.Max) }
func (r Range) Decode16(c uint16) float32 { return Decode(c, r.Min, r.Max) }
func (r Range) Step8() float32            { return Step[uint8](r.Min, r.Max) }
func (r Range) Step16() float32           { return Step[uint16](r.Min, r.Max) }
func (r Range) String() string            { return fmt.Sprintf("[%g, %g]", r.Min, r.Max) }
func (r Range) Contains(v float32) bool   { return v >= r.Min && v <= r.Max }

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}
