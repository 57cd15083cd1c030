package nn

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/openfluke/smallnn/quant"
)

// reference evaluates n in float64 straight from its codes, without the
// decode table or the working buffers.
func reference(n *Network, in []float32, squash bool) []float64 {
	r := n.Range()
	prev := make([]float64, len(in))
	for i, v := range in {
		prev[i] = float64(v)
	}
	for li := 0; li < 2; li++ {
		l := n.Layer(li)
		cur := make([]float64, l.Size)
		for j := range cur {
			sum := float64(r.Decode8(l.Biases[j]))
			for k := 0; k < l.PrevSize; k++ {
				sum += prev[k] * float64(r.Decode8(l.Weights[j*l.PrevSize+k]))
			}
			if squash || li == 1 {
				sum = math.Tanh(sum)
			}
			cur[j] = sum
		}
		prev = cur
	}
	return prev
}

func fill(codes []uint8, c uint8) {
	for i := range codes {
		codes[i] = c
	}
}

func randomNetwork(t *testing.T, rng *rand.Rand, topo Topology, r quant.Range) *Network {
	t.Helper()
	n, err := New(topo, r)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := n.Params()
	for _, codes := range [][]uint8{p.W1, p.W2, p.B1, p.B2} {
		for i := range codes {
			codes[i] = uint8(rng.Intn(256))
		}
	}
	return n
}

// TestScenarioHalfCodes: 2-2-1 network, every code encodes 0.5 over [0, 1],
// input [1, 1].
func TestScenarioHalfCodes(t *testing.T) {
	r := quant.Range{Min: 0, Max: 1}
	n, err := New(Topology{Inputs: 2, Hidden: 2, Outputs: 1}, r)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	half := r.Encode8(0.5)
	p := n.Params()
	for _, codes := range [][]uint8{p.W1, p.W2, p.B1, p.B2} {
		fill(codes, half)
	}

	n.SetInput([]float32{1, 1})
	n.runLayer(n.Layer(0))
	for j, h := range n.outputs[:2] {
		if math.Abs(float64(h)-0.905) > 5e-3 {
			t.Errorf("hidden[%d] = %f, expected ≈ tanh(1.5) = 0.905", j, h)
		}
	}
	n.runLayer(n.Layer(1))
	got := n.Output()[0]

	d := float64(r.Decode8(half))
	h := math.Tanh(3 * d)
	want := math.Tanh(d + 2*h*d)
	if math.Abs(float64(got)-want) > 1e-6 {
		t.Errorf("output = %f, expected %f", got, want)
	}
	if math.Abs(float64(got)-0.886) > 5e-3 {
		t.Errorf("output = %f, expected ≈ 0.886", got)
	}

	// A second pass through the public API gives the same answer.
	if again := n.Predict([]float32{1, 1})[0]; again != got {
		t.Errorf("Predict = %f, runLayer chain = %f", again, got)
	}
}

func TestLayer2ReadsActivatedHidden(t *testing.T) {
	r := quant.Range{Min: -1, Max: 1}
	n, err := New(Topology{Inputs: 2, Hidden: 2, Outputs: 1}, r)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := n.Params()
	fill(p.W1, r.Encode8(1))
	fill(p.B1, r.Encode8(0))
	fill(p.W2, r.Encode8(0.5))
	fill(p.B2, r.Encode8(0))

	in := []float32{0.5, 0.5}
	got := float64(n.Predict(in)[0])
	activated := reference(n, in, true)[0]
	raw := reference(n, in, false)[0]

	if math.Abs(got-activated) > 1e-6 {
		t.Errorf("output = %f, expected %f from tanh'd hidden layer", got, activated)
	}
	if math.Abs(activated-raw) < 1e-2 {
		t.Fatalf("test parameters do not separate activated (%f) from raw (%f) hidden values", activated, raw)
	}
}

func TestForwardMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	topos := []Topology{{3, 5, 2}, {8, 4, 8}, {1, 1, 1}, {6, 16, 3}}
	for _, topo := range topos {
		n := randomNetwork(t, rng, topo, quant.Range{Min: -0.75, Max: 0.5})
		for trial := 0; trial < 20; trial++ {
			in := make([]float32, topo.Inputs)
			for i := range in {
				in[i] = float32(rng.NormFloat64())
			}
			got := n.Predict(in)
			want := reference(n, in, true)
			for j := range want {
				if math.Abs(float64(got[j])-want[j]) > 1e-5 {
					t.Errorf("topology %s output[%d] = %f, expected %f", topo, j, got[j], want[j])
				}
			}
		}
	}
}

func TestOutputsStayInOpenInterval(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	topo := Topology{Inputs: 4, Hidden: 6, Outputs: 3}
	n := randomNetwork(t, rng, topo, quant.Range{Min: -50, Max: 50})

	inputs := [][]float32{
		{0, 0, 0, 0},
		{1e6, -1e6, 3, 0.5},
		{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		{-math.MaxFloat32, math.MaxFloat32, -math.MaxFloat32, 1},
	}
	for trial := 0; trial < 50; trial++ {
		in := make([]float32, topo.Inputs)
		for i := range in {
			in[i] = float32(rng.NormFloat64() * 1e4)
		}
		inputs = append(inputs, in)
	}

	inside := func(v float32) bool { return v > -1 && v < 1 }
	for _, in := range inputs {
		n.SetInput(in)
		n.runLayer(n.Layer(0))
		for j, h := range n.outputs[:topo.Hidden] {
			if !inside(h) {
				t.Errorf("input %v: hidden[%d] = %v outside (-1, 1)", in, j, h)
			}
		}
		n.runLayer(n.Layer(1))
		for j, o := range n.Output() {
			if !inside(o) {
				t.Errorf("input %v: output[%d] = %v outside (-1, 1)", in, j, o)
			}
		}
	}
}

func TestForwardDoesNotAllocate(t *testing.T) {
	n := randomNetwork(t, rand.New(rand.NewSource(1)), Topology{Inputs: 8, Hidden: 16, Outputs: 4}, quant.Range{Min: -1, Max: 1})
	in := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	allocs := testing.AllocsPerRun(100, func() {
		n.SetInput(in)
		n.Forward()
		_ = n.Output()
	})
	if allocs != 0 {
		t.Errorf("Forward allocated %v times per run", allocs)
	}
}

func TestOutputBeforeForwardIsZero(t *testing.T) {
	n, err := New(Topology{Inputs: 2, Hidden: 3, Outputs: 2}, quant.Range{Min: -1, Max: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if diff := cmp.Diff([]float32{0, 0}, n.Output()); diff != "" {
		t.Errorf("Output before Forward (-want +got):\n%s", diff)
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(Topology{Inputs: 0, Hidden: 2, Outputs: 1}, quant.Range{Max: 1}); !errors.Is(err, ErrTopology) {
		t.Errorf("zero inputs: expected ErrTopology, got %v", err)
	}
	if _, err := New(Topology{Inputs: 2, Hidden: 2, Outputs: 1}, quant.Range{Min: 1e9, Max: -1e9}); !errors.Is(err, quant.ErrRange) {
		t.Errorf("inverted range: expected ErrRange, got %v", err)
	}

	n, err := New(Topology{Inputs: 1, Hidden: 1, Outputs: 1}, quant.Range{Min: 0, Max: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := n.SetRange(quant.Range{Min: 2, Max: 1}); !errors.Is(err, quant.ErrRange) {
		t.Errorf("SetRange inverted: expected ErrRange, got %v", err)
	}
	if n.Range() != (quant.Range{Min: 0, Max: 1}) {
		t.Errorf("failed SetRange changed the range to %v", n.Range())
	}
}

func TestSetRangeRedecodes(t *testing.T) {
	n, err := New(Topology{Inputs: 1, Hidden: 1, Outputs: 1}, quant.Range{Min: 0, Max: 0})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := n.Params()
	fill(p.W1, 255)
	fill(p.W2, 255)

	if got := n.Predict([]float32{1})[0]; got != 0 {
		t.Errorf("degenerate zero range: output = %f, expected 0", got)
	}
	if err := n.SetRange(quant.Range{Min: 0, Max: 1}); err != nil {
		t.Fatalf("SetRange: %v", err)
	}
	want := math.Tanh(math.Tanh(1))
	if got := n.Predict([]float32{1})[0]; math.Abs(float64(got)-want) > 1e-6 {
		t.Errorf("after SetRange: output = %f, expected %f", got, want)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	n := randomNetwork(t, rand.New(rand.NewSource(3)), Topology{Inputs: 3, Hidden: 4, Outputs: 2}, quant.Range{Min: -1, Max: 1})
	c := n.Clone()

	in := []float32{0.1, -0.2, 0.3}
	want := append([]float32(nil), n.Predict(in)...)
	if diff := cmp.Diff(want, c.Predict(in)); diff != "" {
		t.Errorf("clone output differs (-orig +clone):\n%s", diff)
	}

	fill(c.Params().W1, 0)
	if diff := cmp.Diff(want, n.Predict(in)); diff != "" {
		t.Errorf("writing the clone changed the original (-before +after):\n%s", diff)
	}
}

func TestParseTopology(t *testing.T) {
	got, err := ParseTopology("2, 8,1")
	if err != nil {
		t.Fatalf("ParseTopology: %v", err)
	}
	if got != (Topology{Inputs: 2, Hidden: 8, Outputs: 1}) {
		t.Errorf("ParseTopology = %+v", got)
	}
	if got.String() != "2,8,1" {
		t.Errorf("String = %q", got.String())
	}
	for _, bad := range []string{"", "1,2", "1,x,3", "1,0,3", "1,2,3,4"} {
		if _, err := ParseTopology(bad); !errors.Is(err, ErrTopology) {
			t.Errorf("ParseTopology(%q): expected ErrTopology, got %v", bad, err)
		}
	}
}

var approx = cmpopts.EquateApprox(0, 1e-6)
