//go:build gpu

package gpu

import (
	"fmt"
	"time"

	"github.com/openfluke/webgpu/wgpu"
)

// readTimeout bounds how long a staging buffer may take to map.
const readTimeout = 2 * time.Second

// NewFloatBuffer creates a buffer initialized with data.
func NewFloatBuffer(c *Context, label string, data []float32, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := c.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: wgpu.ToBytes(data),
		Usage:    usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create buffer %s: %w", label, err)
	}
	return buf, nil
}

// newStorageBuffer creates an uninitialized float32 storage buffer of n values.
func newStorageBuffer(c *Context, label string, n int) (*wgpu.Buffer, error) {
	buf, err := c.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(n * 4),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create buffer %s: %w", label, err)
	}
	return buf, nil
}

// readStagingBuffer maps a MapRead buffer and copies out n float32 values.
func readStagingBuffer(c *Context, buf *wgpu.Buffer, n int) ([]float32, error) {
	done := make(chan struct{})
	var mapErr error

	err := buf.MapAsync(wgpu.MapModeRead, 0, buf.GetSize(), func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("map status: %d", status)
		}
		close(done)
	})
	if err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}

	timeout := time.After(readTimeout)
Loop:
	for {
		c.Device.Poll(false, nil)
		select {
		case <-done:
			break Loop
		case <-timeout:
			return nil, fmt.Errorf("staging read timed out after %s", readTimeout)
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if mapErr != nil {
		return nil, mapErr
	}

	data := buf.GetMappedRange(0, uint(buf.GetSize()))
	defer buf.Unmap()
	if data == nil {
		return nil, fmt.Errorf("mapped range nil")
	}

	out := make([]float32, n)
	copy(out, wgpu.FromBytes[float32](data))
	return out, nil
}
