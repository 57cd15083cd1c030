package nn

import (
	"fmt"
	"log/slog"

	"github.com/openfluke/smallnn/quant"
)

// FloatParams holds unquantized weights and biases in the same row-major
// layout as Params.
type FloatParams struct {
	W1 []float32 `json:"w1"`
	W2 []float32 `json:"w2"`
	B1 []float32 `json:"b1"`
	B2 []float32 `json:"b2"`
}

func (p FloatParams) check(t Topology) error {
	want := []struct {
		name string
		got  int
		need int
	}{
		{"w1", len(p.W1), t.Hidden * t.Inputs},
		{"w2", len(p.W2), t.Outputs * t.Hidden},
		{"b1", len(p.B1), t.Hidden},
		{"b2", len(p.B2), t.Outputs},
	}
	for _, w := range want {
		if w.got != w.need {
			return fmt.Errorf("%w: %s has %d values, topology %s needs %d", ErrSize, w.name, w.got, t, w.need)
		}
	}
	return nil
}

// Quantize builds a network from float parameters. The shared decode range is
// calibrated as the min/max over every weight and bias.
func Quantize(t Topology, p FloatParams) (*Network, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := p.check(t); err != nil {
		return nil, err
	}

	r := quant.Calibrate(p.W1, p.W2, p.B1, p.B2)
	n, err := New(t, r)
	if err != nil {
		return nil, err
	}

	dst := n.Params()
	quant.QuantizeSlice(dst.W1, p.W1, r)
	quant.QuantizeSlice(dst.W2, p.W2, r)
	quant.QuantizeSlice(dst.B1, p.B1, r)
	quant.QuantizeSlice(dst.B2, p.B2, r)

	slog.Debug("quantized network", "topology", t.String(), "range", r.String(), "step", r.Step8())
	return n, nil
}

// Decoded returns the float value of every stored code.
func (n *Network) Decoded() FloatParams {
	p := n.Params()
	decode := func(src []uint8) []float32 {
		out := make([]float32, len(src))
		for i, c := range src {
			out[i] = n.table[c]
		}
		return out
	}
	return FloatParams{
		W1: decode(p.W1),
		W2: decode(p.W2),
		B1: decode(p.B1),
		B2: decode(p.B2),
	}
}
