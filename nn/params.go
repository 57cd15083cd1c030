package nn

import "fmt"

// Params exposes the raw code arrays of a network.
type Params struct {
	W1 []uint8 // Hidden × Inputs
	W2 []uint8 // Outputs × Hidden
	B1 []uint8 // Hidden
	B2 []uint8 // Outputs
}

// Params returns views onto the network storage.
func (n *Network) Params() Params {
	return Params{
		W1: n.layers[0].Weights,
		W2: n.layers[1].Weights,
		B1: n.layers[0].Biases,
		B2: n.layers[1].Biases,
	}
}

// Load copies p into the network. Every array must match the topology exactly.
func (n *Network) Load(p Params) error {
	dst := n.Params()
	pairs := []struct {
		name     string
		dst, src []uint8
	}{
		{"w1", dst.W1, p.W1},
		{"w2", dst.W2, p.W2},
		{"b1", dst.B1, p.B1},
		{"b2", dst.B2, p.B2},
	}
	for _, pr := range pairs {
		if len(pr.src) != len(pr.dst) {
			return fmt.Errorf("%w: %s has %d codes, topology %s needs %d",
				ErrSize, pr.name, len(pr.src), n.topology, len(pr.dst))
		}
	}
	for _, pr := range pairs {
		copy(pr.dst, pr.src)
	}
	return nil
}

// LoadBytes loads a raw blob laid out as W1 | W2 | B1 | B2.
func (n *Network) LoadBytes(b []byte) error {
	if len(b) != n.topology.ParamCount() {
		return fmt.Errorf("%w: blob has %d bytes, topology %s needs %d",
			ErrSize, len(b), n.topology, n.topology.ParamCount())
	}
	p := n.Params()
	off := 0
	for _, dst := range [][]uint8{p.W1, p.W2, p.B1, p.B2} {
		off += copy(dst, b[off:])
	}
	return nil
}

// AppendBytes appends the raw W1 | W2 | B1 | B2 blob to dst.
func (n *Network) AppendBytes(dst []byte) []byte {
	p := n.Params()
	dst = append(dst, p.W1...)
	dst = append(dst, p.W2...)
	dst = append(dst, p.B1...)
	return append(dst, p.B2...)
}
