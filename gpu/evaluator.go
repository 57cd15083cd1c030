//go:build gpu

package gpu

import (
	"fmt"
	"log/slog"

	"github.com/openfluke/smallnn/nn"
)

// Evaluator runs a network's forward pass over fixed-size batches on the GPU.
// Weights are decoded once at construction; later changes to the source
// network are not seen.
type Evaluator struct {
	ctx      *Context
	seq      *DenseSequence
	topology nn.Topology
	batch    int
}

// NewEvaluator uploads the decoded weights of n and builds a two-layer tanh
// pipeline that processes batch samples per dispatch.
func NewEvaluator(n *nn.Network, batch int) (*Evaluator, error) {
	if batch <= 0 {
		return nil, fmt.Errorf("gpu: batch size %d must be positive", batch)
	}
	c, err := GetContext()
	if err != nil {
		return nil, err
	}

	t := n.Topology()
	p := n.Decoded()
	seq := NewDenseSequence([]DenseLayerSpec{
		{InputSize: t.Inputs, OutputSize: t.Hidden, Weights: p.W1, Biases: p.B1},
		{InputSize: t.Hidden, OutputSize: t.Outputs, Weights: p.W2, Biases: p.B2},
	}, batch)
	if err := seq.Build(c); err != nil {
		seq.Cleanup()
		return nil, fmt.Errorf("gpu: build pipeline: %w", err)
	}

	slog.Debug("gpu evaluator ready", "topology", t.String(), "batch", batch)
	return &Evaluator{ctx: c, seq: seq, topology: t, batch: batch}, nil
}

// Evaluate returns one output slice per input. Inputs shorter than the
// topology are zero-padded, longer ones truncated.
func (e *Evaluator) Evaluate(inputs [][]float32) ([][]float32, error) {
	in, out := e.topology.Inputs, e.topology.Outputs
	results := make([][]float32, 0, len(inputs))
	flat := make([]float32, e.batch*in)

	for start := 0; start < len(inputs); start += e.batch {
		end := min(start+e.batch, len(inputs))
		clear(flat)
		for i, v := range inputs[start:end] {
			copy(flat[i*in:(i+1)*in], v)
		}

		y, err := e.seq.Forward(e.ctx, flat)
		if err != nil {
			return nil, fmt.Errorf("gpu: samples %d-%d: %w", start, end-1, err)
		}
		for i := range end - start {
			results = append(results, y[i*out:(i+1)*out:(i+1)*out])
		}
	}
	return results, nil
}

// Close releases the GPU buffers and pipelines.
func (e *Evaluator) Close() {
	if e.seq != nil {
		e.seq.Cleanup()
		e.seq = nil
	}
}
