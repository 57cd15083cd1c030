package nn

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrTopology is returned for non-positive or malformed layer widths.
	ErrTopology = errors.New("nn: invalid topology")
	// ErrSize is returned when a parameter array does not match the topology.
	ErrSize = errors.New("nn: parameter size mismatch")
)

// Topology holds the three layer widths of a network.
type Topology struct {
	Inputs  int `json:"inputs"`
	Hidden  int `json:"hidden"`
	Outputs int `json:"outputs"`
}

// Validate checks that every width is positive.
func (t Topology) Validate() error {
	if t.Inputs <= 0 || t.Hidden <= 0 || t.Outputs <= 0 {
		return fmt.Errorf("%w: %s", ErrTopology, t)
	}
	return nil
}

// Width returns the largest of the three layer widths, which sizes the
// working buffers.
func (t Topology) Width() int {
	return max(t.Inputs, t.Hidden, t.Outputs)
}

// ParamCount returns the number of 8-bit codes a network of this topology
// stores.
func (t Topology) ParamCount() int {
	return t.Hidden*t.Inputs + t.Outputs*t.Hidden + t.Hidden + t.Outputs
}

func (t Topology) String() string {
	return fmt.Sprintf("%d,%d,%d", t.Inputs, t.Hidden, t.Outputs)
}

// ParseTopology parses the "inputs,hidden,outputs" form produced by String.
func ParseTopology(s string) (Topology, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Topology{}, fmt.Errorf("%w: want inputs,hidden,outputs, got %q", ErrTopology, s)
	}
	var widths [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Topology{}, fmt.Errorf("%w: %q: %v", ErrTopology, s, err)
		}
		widths[i] = v
	}
	t := Topology{Inputs: widths[0], Hidden: widths[1], Outputs: widths[2]}
	return t, t.Validate()
}

// Layer is one dense layer of 8-bit codes. Weights are row-major: the weight
// from input k to neuron j is Weights[j*PrevSize+k].
type Layer struct {
	Size     int
	PrevSize int
	Weights  []uint8
	Biases   []uint8
}

func newLayer(size, prevSize int) Layer {
	return Layer{
		Size:     size,
		PrevSize: prevSize,
		Weights:  make([]uint8, size*prevSize),
		Biases:   make([]uint8, size),
	}
}
