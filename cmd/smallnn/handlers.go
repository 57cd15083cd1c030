package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math/rand/v2"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/cpuid/v2"
	"github.com/spf13/cobra"

	"github.com/openfluke/smallnn/envconfig"
	"github.com/openfluke/smallnn/gpu"
	"github.com/openfluke/smallnn/history"
	"github.com/openfluke/smallnn/nn"
	"github.com/openfluke/smallnn/quant"
)

// paramsFile is the JSON accepted by quantize.
type paramsFile struct {
	Topology nn.Topology `json:"topology"`
	nn.FloatParams
}

func loadNetwork(cmd *cobra.Command) (*nn.Network, error) {
	path, _ := cmd.Flags().GetString("model")
	widths, _ := cmd.Flags().GetString("topology")
	lo, _ := cmd.Flags().GetFloat32("min")
	hi, _ := cmd.Flags().GetFloat32("max")

	t, err := nn.ParseTopology(widths)
	if err != nil {
		return nil, err
	}
	n, err := nn.New(t, quant.Range{Min: lo, Max: hi})
	if err != nil {
		return nil, err
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := n.LoadBytes(blob); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Debug("loaded network", "path", path, "topology", t.String(), "range", n.Range().String())
	return n, nil
}

func parseFloats(fields []string) ([]float32, error) {
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid input %q: %w", f, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

func formatFloats(v []float32) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(float64(x), 'f', 6, 32)
	}
	return strings.Join(parts, " ")
}

func QuantizeHandler(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")

	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	var pf paramsFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	n, err := nn.Quantize(pf.Topology, pf.FloatParams)
	if err != nil {
		return err
	}
	blob := n.AppendBytes(nil)
	if err := os.WriteFile(out, blob, 0o644); err != nil {
		return err
	}

	r := n.Range()
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(blob), out)
	fmt.Fprintf(cmd.OutOrStdout(), "--topology %s --min %g --max %g\n", pf.Topology, r.Min, r.Max)
	return nil
}

func RunHandler(cmd *cobra.Command, args []string) error {
	n, err := loadNetwork(cmd)
	if err != nil {
		return err
	}
	in, err := parseFloats(args)
	if err != nil {
		return err
	}
	if len(in) != n.Topology().Inputs {
		slog.Warn("input count differs from topology", "got", len(in), "inputs", n.Topology().Inputs)
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatFloats(n.Predict(in)))
	return nil
}

// StreamHandler keeps the last Inputs samples read from stdin and runs one
// pass per sample once the window is full.
func StreamHandler(cmd *cobra.Command, args []string) error {
	n, err := loadNetwork(cmd)
	if err != nil {
		return err
	}
	window := history.NewRing[float32](n.Topology().Inputs)
	buf := make([]float32, window.Cap())

	return stream(cmd.InOrStdin(), cmd.OutOrStdout(), func(v float32) (string, bool) {
		window.Push(v)
		if !window.Full() {
			return "", false
		}
		window.CopyTo(buf)
		return formatFloats(n.Predict(buf)), true
	})
}

func stream(r io.Reader, w io.Writer, step func(float32) (string, bool)) error {
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if out, ok := step(float32(v)); ok {
			fmt.Fprintln(w, out)
		}
	}
	return sc.Err()
}

func BenchHandler(cmd *cobra.Command, args []string) error {
	n, err := loadNetwork(cmd)
	if err != nil {
		return err
	}
	samples, _ := cmd.Flags().GetInt("samples")
	batch, _ := cmd.Flags().GetInt("batch")
	seed, _ := cmd.Flags().GetUint64("seed")
	useGPU, _ := cmd.Flags().GetBool("gpu")
	useGPU = useGPU || envconfig.GPU()

	rng := rand.New(rand.NewPCG(seed, seed))
	inputs := make([][]float32, samples)
	for i := range inputs {
		inputs[i] = make([]float32, n.Topology().Inputs)
		for j := range inputs[i] {
			inputs[i][j] = rng.Float32()*2 - 1
		}
	}

	workers := envconfig.Workers()
	start := time.Now()
	cpu, err := nn.EvaluateBatch(cmd.Context(), n, inputs, workers)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	fmt.Fprintf(cmd.OutOrStdout(), "cpu: %d samples, %d workers, %s (%.0f samples/s)\n",
		samples, workers, elapsed, float64(samples)/elapsed.Seconds())

	if !useGPU {
		return nil
	}

	e, err := gpu.NewEvaluator(n, batch)
	if errors.Is(err, gpu.ErrNoGPU) {
		fmt.Fprintf(cmd.OutOrStdout(), "gpu: skipped (%v)\n", err)
		return nil
	} else if err != nil {
		return err
	}
	defer e.Close()

	start = time.Now()
	got, err := e.Evaluate(inputs)
	if err != nil {
		return err
	}
	elapsed = time.Since(start)
	fmt.Fprintf(cmd.OutOrStdout(), "gpu: %d samples, batch %d, %s (%.0f samples/s), max diff %.2e\n",
		samples, batch, elapsed, float64(samples)/elapsed.Seconds(), nn.MaxAbsDiffBatch(cpu, got))
	return nil
}

func ProbeHandler(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "cpu: %s\n", cpuid.CPU.BrandName)
	fmt.Fprintf(w, "cores: %d physical, %d logical\n", cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores)
	fmt.Fprintf(w, "features: %s\n", strings.Join(cpuid.CPU.FeatureSet(), " "))

	if rep, err := gpu.Describe(); err != nil {
		fmt.Fprintf(w, "gpu: %v\n", err)
	} else {
		b, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "gpu: %s\n", b)
	}

	env := envconfig.Values()
	for _, k := range slices.Sorted(maps.Keys(env)) {
		fmt.Fprintf(w, "%s=%s\n", k, env[k])
	}
	return nil
}
