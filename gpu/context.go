//go:build gpu

package gpu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/openfluke/webgpu/wgpu"
)

// Context holds the single WebGPU context for the process.
type Context struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	once     sync.Once
	initErr  error
}

var ctx Context

// Available reports whether a WebGPU device could be opened.
func Available() bool {
	_, err := GetContext()
	return err == nil
}

// GetContext returns the singleton GPU context, initializing it on first use.
// A failed initialization is remembered and returned on every later call.
func GetContext() (*Context, error) {
	ctx.once.Do(func() {
		ctx.initErr = ctx.init()
	})
	if ctx.initErr != nil {
		return nil, ctx.initErr
	}
	return &ctx, nil
}

func (c *Context) init() error {
	c.Instance = wgpu.CreateInstance(nil)
	if c.Instance == nil {
		return fmt.Errorf("%w: failed to create WebGPU instance", ErrNoGPU)
	}

	var err error
	for _, pref := range []wgpu.PowerPreference{wgpu.PowerPreferenceHighPerformance, wgpu.PowerPreferenceLowPower} {
		c.Adapter, err = c.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{PowerPreference: pref})
		if err == nil && c.Adapter != nil {
			break
		}
		slog.Debug("adapter request failed, falling back", "preference", pref, "error", err)
	}
	if c.Adapter == nil {
		c.Adapter, err = c.Instance.RequestAdapter(nil)
	}
	if c.Adapter == nil {
		return fmt.Errorf("%w: all adapter attempts failed: %v", ErrNoGPU, err)
	}

	info := c.Adapter.GetInfo()
	slog.Info("using GPU adapter", "name", info.Name, "vendor", info.VendorName)

	c.Device, err = c.Adapter.RequestDevice(nil)
	if err != nil {
		return fmt.Errorf("%w: request device: %v", ErrNoGPU, err)
	}
	c.Queue = c.Device.GetQueue()
	if c.Queue == nil {
		return fmt.Errorf("%w: device has no queue", ErrNoGPU)
	}
	return nil
}
