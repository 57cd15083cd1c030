// Package gpu evaluates quantized networks in batches on a WebGPU device.
//
// The WebGPU backend is compiled only with -tags=gpu. Without the tag every
// entry point reports ErrNoGPU, so the rest of the module builds and runs on
// hosts without a GPU driver.
package gpu

import "errors"

// ErrNoGPU is returned by every entry point when no GPU backend is usable.
var ErrNoGPU = errors.New("gpu unavailable (build with -tags=gpu to enable)")
