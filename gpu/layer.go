//go:build gpu

package gpu

import "github.com/openfluke/webgpu/wgpu"

// Layer is a GPU stage that can be chained into a sequence: its output buffer
// is copied into the next stage's input buffer.
type Layer interface {
	AllocateBuffers(ctx *Context, labelPrefix string) error
	Compile(ctx *Context, labelPrefix string) error
	CreateBindGroup(ctx *Context, labelPrefix string) error

	Dispatch(pass *wgpu.ComputePassEncoder)

	GetInputBuffer() *wgpu.Buffer
	GetOutputBuffer() *wgpu.Buffer
	GetStagingBuffer() *wgpu.Buffer

	Cleanup()
}
