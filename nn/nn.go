// Package nn provides a fixed-topology, three-layer feed-forward predictor whose
// weights and biases are stored as 8-bit codes.
//
// The network is organized as input → hidden → output:
//   - Layer 1 has Hidden neurons, each reading all Inputs values
//   - Layer 2 has Outputs neurons, each reading all Hidden values
//   - Every neuron computes tanh(bias + Σ input[k] * weight[k])
//
// Every weight and bias is decoded through a single quant.Range shared by the
// whole network. Accumulation happens in floating point; only storage is
// quantized.
//
// Example usage:
//
//	net, err := nn.New(nn.Topology{Inputs: 4, Hidden: 8, Outputs: 2}, quant.Range{Min: -1, Max: 1})
//	if err != nil {
//		return err
//	}
//	if err := net.LoadBytes(blob); err != nil {
//		return err
//	}
//
//	net.SetInput(samples)
//	net.Forward()
//	out := net.Output()
//
// Forward never allocates and never fails. A Network is not safe for
// concurrent use; Clone it per goroutine or use EvaluateBatch.
package nn
