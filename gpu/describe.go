//go:build gpu

package gpu

import (
	"fmt"
	"strings"
)

// Describe reports the adapter held by the process context.
func Describe() (*Report, error) {
	c, err := GetContext()
	if err != nil {
		return nil, err
	}

	info := c.Adapter.GetInfo()
	limits := c.Adapter.GetLimits()

	return &Report{
		Name:        strings.TrimSpace(info.Name),
		Vendor:      strings.TrimSpace(info.VendorName),
		VendorID:    fmt.Sprintf("0x%04x", info.VendorId),
		DeviceID:    fmt.Sprintf("0x%04x", info.DeviceId),
		Backend:     info.BackendType.String(),
		AdapterType: info.AdapterType.String(),
		Driver:      strings.TrimSpace(info.DriverDescription),
		Limits: Limits{
			MaxComputeInvocationsPerWorkgroup: limits.Limits.MaxComputeInvocationsPerWorkgroup,
			MaxComputeWorkgroupSizeX:          limits.Limits.MaxComputeWorkgroupSizeX,
			MaxComputeWorkgroupsPerDimension:  limits.Limits.MaxComputeWorkgroupsPerDimension,
			MaxStorageBufferBindingSize:       limits.Limits.MaxStorageBufferBindingSize,
			MaxBufferSize:                     limits.Limits.MaxBufferSize,
		},
	}, nil
}
