package nn

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
)

// EvaluateBatch runs every input through a clone of n and returns the outputs
// in input order. Inputs are split into contiguous chunks, one per worker, and
// each worker owns its own clone. n itself is not modified.
func EvaluateBatch(ctx context.Context, n *Network, inputs [][]float32, workers int) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	if len(inputs) == 0 {
		return out, nil
	}
	workers = max(1, min(workers, len(inputs)))
	chunk := (len(inputs) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(inputs); start += chunk {
		end := min(start+chunk, len(inputs))
		local := n.Clone()
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				out[i] = slices.Clone(local.Predict(inputs[i]))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
