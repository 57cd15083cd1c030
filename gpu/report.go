package gpu

// Report is a portable summary of the selected adapter.
type Report struct {
	Name        string `json:"name"`
	Vendor      string `json:"vendor"`
	VendorID    string `json:"vendor_id_hex"`
	DeviceID    string `json:"device_id_hex"`
	Backend     string `json:"backend"`
	AdapterType string `json:"adapter_type"`
	Driver      string `json:"driver"`
	Limits      Limits `json:"limits"`
}

// Limits lists the device limits that bound a dense dispatch.
type Limits struct {
	MaxComputeInvocationsPerWorkgroup uint32 `json:"max_compute_invocations_per_workgroup"`
	MaxComputeWorkgroupSizeX          uint32 `json:"max_compute_workgroup_size_x"`
	MaxComputeWorkgroupsPerDimension  uint32 `json:"max_compute_workgroups_per_dimension"`
	MaxStorageBufferBindingSize       uint64 `json:"max_storage_buffer_binding_size"`
	MaxBufferSize                     uint64 `json:"max_buffer_size"`
}
