package nn

import (
	"fmt"

	"github.com/openfluke/smallnn/quant"
)

// Network is a three-layer feed-forward predictor with 8-bit weights.
type Network struct {
	topology Topology
	rng      quant.Range
	table    quant.Table8 // decoded value of every code under rng

	// layers[0] is input→hidden, layers[1] is hidden→output.
	layers [2]Layer

	inputs  []float32
	outputs []float32
}

// New allocates a network for t whose codes decode over r. All weights and
// biases start at code 0, which decodes to r.Min.
func New(t Topology, r quant.Range) (*Network, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("nn: decode range: %w", err)
	}

	width := t.Width()
	n := &Network{
		topology: t,
		rng:      r,
		layers: [2]Layer{
			newLayer(t.Hidden, t.Inputs),
			newLayer(t.Outputs, t.Hidden),
		},
		inputs:  make([]float32, width),
		outputs: make([]float32, width),
	}
	n.table.Fill(r)
	return n, nil
}

// Topology returns the layer widths.
func (n *Network) Topology() Topology { return n.topology }

// Range returns the shared decode range.
func (n *Network) Range() quant.Range { return n.rng }

// SetRange replaces the shared decode range. Stored codes are kept as they
// are, so their decoded values change.
func (n *Network) SetRange(r quant.Range) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("nn: decode range: %w", err)
	}
	n.rng = r
	n.table.Fill(r)
	return nil
}

// Layer returns the i-th layer (0 or 1). Its slices alias the network storage
// and may be written by a loader.
func (n *Network) Layer(i int) *Layer { return &n.layers[i] }

// SetInput copies up to Inputs values of v into the working input buffer.
func (n *Network) SetInput(v []float32) {
	copy(n.inputs[:n.topology.Inputs], v)
}

// Forward runs layer 1 then layer 2. Layer 2 reads layer 1's tanh outputs.
func (n *Network) Forward() {
	n.runLayer(&n.layers[0])
	n.runLayer(&n.layers[1])
}

// Output returns the final layer outputs. The slice aliases the working
// buffer and is overwritten by the next Forward; before any pass it is zero.
func (n *Network) Output() []float32 {
	return n.outputs[:n.topology.Outputs]
}

// Predict is SetInput, Forward and Output in one call.
func (n *Network) Predict(in []float32) []float32 {
	n.SetInput(in)
	n.Forward()
	return n.Output()
}

// Clone returns an independent copy with its own weights and buffers.
func (n *Network) Clone() *Network {
	c := *n
	for i := range c.layers {
		c.layers[i].Weights = append([]uint8(nil), n.layers[i].Weights...)
		c.layers[i].Biases = append([]uint8(nil), n.layers[i].Biases...)
	}
	c.inputs = append([]float32(nil), n.inputs...)
	c.outputs = append([]float32(nil), n.outputs...)
	return &c
}
