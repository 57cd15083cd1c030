package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/openfluke/smallnn/envconfig"
)

// NewCLI builds the root command and its subcommands.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "smallnn",
		Short:         "Quantized feed-forward network runner",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: envconfig.LogLevel()})
			slog.SetDefault(slog.New(h))
		},
	}

	rootCmd.AddCommand(
		newQuantizeCmd(),
		newRunCmd(),
		newStreamCmd(),
		newBenchCmd(),
		newProbeCmd(),
	)
	return rootCmd
}

// addModelFlags registers the flags needed to load a raw network blob.
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().String("model", "", "Path to a raw W1|W2|B1|B2 blob")
	cmd.Flags().String("topology", "", "Layer widths as inputs,hidden,outputs")
	cmd.Flags().Float32("min", 0, "Lower bound of the decode range")
	cmd.Flags().Float32("max", 1, "Upper bound of the decode range")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("topology")
}

func newQuantizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quantize",
		Short: "Quantize float parameters from JSON into a raw blob",
		Args:  cobra.NoArgs,
		RunE:  QuantizeHandler,
	}
	cmd.Flags().String("in", "", "Float parameter JSON file")
	cmd.Flags().String("out", "", "Output blob path")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run INPUT...",
		Short: "Run one forward pass",
		Args:  cobra.MinimumNArgs(1),
		RunE:  RunHandler,
	}
	addModelFlags(cmd)
	return cmd
}

func newStreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Run a pass per sample over a sliding window read from stdin",
		Args:  cobra.NoArgs,
		RunE:  StreamHandler,
	}
	addModelFlags(cmd)
	return cmd
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Evaluate random inputs in parallel and report throughput",
		Args:  cobra.NoArgs,
		RunE:  BenchHandler,
	}
	addModelFlags(cmd)
	cmd.Flags().IntP("samples", "n", 10000, "Number of random input vectors")
	cmd.Flags().Int("batch", 256, "GPU batch size")
	cmd.Flags().Bool("gpu", false, "Compare against the GPU evaluator (also SMALLNN_GPU)")
	cmd.Flags().Uint64("seed", 1, "Random seed for inputs")
	return cmd
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Show CPU, GPU and environment settings",
		Args:  cobra.NoArgs,
		RunE:  ProbeHandler,
	}
}
