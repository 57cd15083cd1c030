//go:build !gpu

package gpu

import "github.com/openfluke/smallnn/nn"

// Available reports whether this binary carries a GPU backend.
func Available() bool { return false }

// Describe reports the adapter that would be used.
func Describe() (*Report, error) { return nil, ErrNoGPU }

// Evaluator is unavailable in builds without the gpu tag.
type Evaluator struct{}

// NewEvaluator always fails with ErrNoGPU in this build.
func NewEvaluator(*nn.Network, int) (*Evaluator, error) { return nil, ErrNoGPU }

func (*Evaluator) Evaluate([][]float32) ([][]float32, error) { return nil, ErrNoGPU }
func (*Evaluator) Close()                                    {}
