// Command cabi builds a C shared library over a single network instance:
//
//	go build -buildmode=c-shared -o libsmallnn.so ./cabi
//
// Integer-returning calls use 0 for success and a negative status on failure.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/openfluke/smallnn/nn"
	"github.com/openfluke/smallnn/quant"
)

const (
	statusNoNetwork = -1
	statusTopology  = -2
	statusRange     = -3
	statusSize      = -4
	statusBuffer    = -5
)

// Global network instance (single-network API)
var (
	mu             sync.Mutex
	currentNetwork *nn.Network
)

func errJSON(msg string) *C.char {
	return asJSON(map[string]string{"error": msg})
}

func asJSON(v any) *C.char {
	data, err := json.Marshal(v)
	if err != nil {
		return C.CString(fmt.Sprintf(`{"error": %q}`, err.Error()))
	}
	return C.CString(string(data))
}

func status(err error) C.int {
	switch {
	case errors.Is(err, nn.ErrTopology):
		return statusTopology
	case errors.Is(err, quant.ErrRange):
		return statusRange
	case errors.Is(err, nn.ErrSize):
		return statusSize
	default:
		return statusBuffer
	}
}

//export SmallNNCreate
func SmallNNCreate(inputs, hidden, outputs C.int, lo, hi C.float) C.int {
	t := nn.Topology{Inputs: int(inputs), Hidden: int(hidden), Outputs: int(outputs)}
	n, err := nn.New(t, quant.Range{Min: float32(lo), Max: float32(hi)})
	if err != nil {
		slog.Warn("create network", "error", err)
		return status(err)
	}

	mu.Lock()
	currentNetwork = n
	mu.Unlock()
	return 0
}

//export SmallNNLoad
func SmallNNLoad(data *C.uchar, length C.int) C.int {
	mu.Lock()
	defer mu.Unlock()
	if currentNetwork == nil {
		return statusNoNetwork
	}
	if data == nil || length < 0 {
		return statusBuffer
	}

	blob := unsafe.Slice((*byte)(unsafe.Pointer(data)), int(length))
	if err := currentNetwork.LoadBytes(blob); err != nil {
		return status(err)
	}
	return 0
}

// SmallNNForward runs one pass and writes the outputs into out. It returns the
// number of outputs written.
//
//export SmallNNForward
func SmallNNForward(in *C.float, inLen C.int, out *C.float, outLen C.int) C.int {
	mu.Lock()
	defer mu.Unlock()
	if currentNetwork == nil {
		return statusNoNetwork
	}
	t := currentNetwork.Topology()
	if in == nil || out == nil || inLen < 0 || int(outLen) < t.Outputs {
		return statusBuffer
	}

	src := unsafe.Slice((*float32)(unsafe.Pointer(in)), int(inLen))
	dst := unsafe.Slice((*float32)(unsafe.Pointer(out)), int(outLen))
	return C.int(copy(dst, currentNetwork.Predict(src)))
}

//export SmallNNInfo
func SmallNNInfo() *C.char {
	mu.Lock()
	defer mu.Unlock()
	if currentNetwork == nil {
		return errJSON("no network created")
	}
	t := currentNetwork.Topology()
	return asJSON(map[string]any{
		"topology":    t,
		"range":       currentNetwork.Range(),
		"param_count": t.ParamCount(),
		"step":        currentNetwork.Range().Step8(),
	})
}

//export SmallNNFreeString
func SmallNNFreeString(str *C.char) {
	C.free(unsafe.Pointer(str))
}

func main() {}
