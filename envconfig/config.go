// Package envconfig reads smallnn settings from the environment.
//
//   - SMALLNN_DEBUG: log level (true for debug, or a signed verbosity step)
//   - SMALLNN_WORKERS: goroutines used for batch evaluation (default: physical cores)
//   - SMALLNN_GPU: prefer the GPU evaluator where the binary was built with it
package envconfig

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// Var returns an environment variable stripped of whitespace and quotes.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// LogLevel is taken from SMALLNN_DEBUG. A boolean true selects debug; an
// integer n selects slog.Level(-4n).
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("SMALLNN_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}
	return level
}

// Bool returns a reader for a boolean variable. Unparseable non-empty values
// count as true.
func Bool(k string) func() bool {
	return func() bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return false
	}
}

// Uint returns a reader for an unsigned variable, falling back to defaultValue
// with a warning when the value does not parse.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

var (
	// GPU enables the GPU evaluator in commands that support it.
	GPU = Bool("SMALLNN_GPU")

	workers = Uint("SMALLNN_WORKERS", 0)
)

// Workers returns SMALLNN_WORKERS, or the number of physical cores reported by
// the CPU when unset or zero.
func Workers() int {
	if n := workers(); n > 0 {
		return int(n)
	}
	if cores := cpuid.CPU.PhysicalCores; cores > 0 {
		return cores
	}
	return runtime.NumCPU()
}

// Values returns the effective settings for display.
func Values() map[string]string {
	return map[string]string{
		"SMALLNN_DEBUG":   LogLevel().String(),
		"SMALLNN_WORKERS": strconv.Itoa(Workers()),
		"SMALLNN_GPU":     strconv.FormatBool(GPU()),
	}
}
