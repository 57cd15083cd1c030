//go:build gpu

package gpu

import (
	"fmt"
	"log/slog"

	"github.com/openfluke/webgpu/wgpu"
)

const workgroupSize = 256

// DenseLayerSpec describes one tanh dense layer with decoded float weights.
type DenseLayerSpec struct {
	InputSize  int
	OutputSize int
	Weights    []float32 // row-major [OutputSize * InputSize]
	Biases     []float32 // [OutputSize]
}

// DenseLayer holds the GPU resources of one layer for a fixed batch size.
type DenseLayer struct {
	Spec      DenseLayerSpec
	BatchSize int

	pipeline        *wgpu.ComputePipeline
	bindGroupLayout *wgpu.BindGroupLayout
	bindGroup       *wgpu.BindGroup

	InputBuffer   *wgpu.Buffer
	OutputBuffer  *wgpu.Buffer
	StagingBuffer *wgpu.Buffer
	WeightBuffer  *wgpu.Buffer
	BiasBuffer    *wgpu.Buffer

	WorkgroupsX uint32
}

var _ Layer = (*DenseLayer)(nil)

func (l *DenseLayer) GetInputBuffer() *wgpu.Buffer   { return l.InputBuffer }
func (l *DenseLayer) GetOutputBuffer() *wgpu.Buffer  { return l.OutputBuffer }
func (l *DenseLayer) GetStagingBuffer() *wgpu.Buffer { return l.StagingBuffer }

func (l *DenseLayer) batch() int {
	return max(l.BatchSize, 1)
}

func (l *DenseLayer) Cleanup() {
	for _, b := range []*wgpu.Buffer{l.InputBuffer, l.OutputBuffer, l.StagingBuffer, l.WeightBuffer, l.BiasBuffer} {
		if b != nil {
			b.Destroy()
		}
	}
	if l.pipeline != nil {
		l.pipeline.Release()
	}
	if l.bindGroup != nil {
		l.bindGroup.Release()
	}
}

// GenerateShader returns the WGSL kernel for this layer. One invocation
// computes one neuron of one sample. The pre-activation is clamped before tanh
// and the result pinned inside (-1, 1), matching the CPU path.
func (l *DenseLayer) GenerateShader() string {
	return fmt.Sprintf(`
		@group(0) @binding(0) var<storage, read> input : array<f32>;
		@group(0) @binding(1) var<storage, read_write> output : array<f32>;
		@group(0) @binding(2) var<storage, read> weights : array<f32>;
		@group(0) @binding(3) var<storage, read> biases : array<f32>;

		fn activate(x: f32) -> f32 {
			return clamp(tanh(clamp(x, -15.0, 15.0)), -0.99999994, 0.99999994);
		}

		@compute @workgroup_size(%d)
		fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
			let idx = gid.x;
			let n_out = %du;
			let n_in = %du;

			if (idx >= arrayLength(&output)) {
				return;
			}

			// idx = sample_idx * n_out + out_idx
			let sample_idx = idx / n_out;
			let out_idx = idx %% n_out;

			var sum: f32 = biases[out_idx];
			let weight_offset = out_idx * n_in;
			let input_offset = sample_idx * n_in;

			for (var i: u32 = 0u; i < n_in; i++) {
				sum += weights[weight_offset + i] * input[input_offset + i];
			}

			output[idx] = activate(sum);
		}
	`, workgroupSize, l.Spec.OutputSize, l.Spec.InputSize)
}

func (l *DenseLayer) AllocateBuffers(ctx *Context, labelPrefix string) error {
	slog.Debug("allocating dense buffers", "layer", labelPrefix, "batch", l.batch())
	var err error

	if l.InputBuffer, err = newStorageBuffer(ctx, labelPrefix+"_In", l.Spec.InputSize*l.batch()); err != nil {
		return err
	}
	if l.OutputBuffer, err = newStorageBuffer(ctx, labelPrefix+"_Out", l.Spec.OutputSize*l.batch()); err != nil {
		return err
	}

	usage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc
	if l.WeightBuffer, err = NewFloatBuffer(ctx, labelPrefix+"_W", l.Spec.Weights, usage); err != nil {
		return err
	}
	if l.BiasBuffer, err = NewFloatBuffer(ctx, labelPrefix+"_B", l.Spec.Biases, usage); err != nil {
		return err
	}

	l.StagingBuffer, err = ctx.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: labelPrefix + "_Staging",
		Size:  uint64(l.Spec.OutputSize * l.batch() * 4),
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	return err
}

func (l *DenseLayer) Compile(ctx *Context, labelPrefix string) error {
	module, err := ctx.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          labelPrefix + "_Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: l.GenerateShader()},
	})
	if err != nil {
		return fmt.Errorf("shader compile: %w", err)
	}
	defer module.Release()

	l.bindGroupLayout, err = ctx.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: labelPrefix + "_BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}}, // Input
			{Binding: 1, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},         // Output
			{Binding: 2, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}}, // Weights
			{Binding: 3, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}}, // Biases
		},
	})
	if err != nil {
		return fmt.Errorf("create bgl: %w", err)
	}

	pipelineLayout, err := ctx.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            labelPrefix + "_Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{l.bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	l.pipeline, err = ctx.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  labelPrefix + "_Pipe",
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("pipeline create: %w", err)
	}

	totalThreads := uint32(l.Spec.OutputSize * l.batch())
	l.WorkgroupsX = (totalThreads + workgroupSize - 1) / workgroupSize
	return nil
}

func (l *DenseLayer) CreateBindGroup(ctx *Context, labelPrefix string) error {
	var err error
	l.bindGroup, err = ctx.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  labelPrefix + "_Bind",
		Layout: l.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: l.InputBuffer, Size: l.InputBuffer.GetSize()},
			{Binding: 1, Buffer: l.OutputBuffer, Size: l.OutputBuffer.GetSize()},
			{Binding: 2, Buffer: l.WeightBuffer, Size: l.WeightBuffer.GetSize()},
			{Binding: 3, Buffer: l.BiasBuffer, Size: l.BiasBuffer.GetSize()},
		},
	})
	return err
}

// Dispatch records the compute pass for this layer.
func (l *DenseLayer) Dispatch(pass *wgpu.ComputePassEncoder) {
	pass.SetPipeline(l.pipeline)
	pass.SetBindGroup(0, l.bindGroup, nil)
	pass.DispatchWorkgroups(l.WorkgroupsX, 1, 1)
}

// DenseSequence runs dense layers in order on the GPU, each reading the
// previous layer's output buffer.
type DenseSequence struct {
	Layers    []Layer
	outputLen int // values per sample in the last layer
}

// NewDenseSequence creates the layers for specs at the given batch size.
func NewDenseSequence(specs []DenseLayerSpec, batch int) *DenseSequence {
	s := &DenseSequence{}
	for _, spec := range specs {
		s.Layers = append(s.Layers, &DenseLayer{Spec: spec, BatchSize: batch})
		s.outputLen = spec.OutputSize * max(batch, 1)
	}
	return s
}

// Build allocates, compiles and binds every layer.
func (s *DenseSequence) Build(ctx *Context) error {
	for i, l := range s.Layers {
		label := fmt.Sprintf("L%d", i)
		if err := l.AllocateBuffers(ctx, label); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		if err := l.Compile(ctx, label); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		if err := l.CreateBindGroup(ctx, label); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
	}
	return nil
}

// Cleanup releases every layer's resources.
func (s *DenseSequence) Cleanup() {
	for _, l := range s.Layers {
		l.Cleanup()
	}
}

// Forward writes a flattened batch of inputs into the first layer, runs every
// layer in one command buffer and reads back the last layer's outputs.
func (s *DenseSequence) Forward(ctx *Context, input []float32) ([]float32, error) {
	if len(s.Layers) == 0 {
		return nil, fmt.Errorf("no layers built")
	}

	enc, err := ctx.Device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}

	ctx.Queue.WriteBuffer(s.Layers[0].GetInputBuffer(), 0, wgpu.ToBytes(input))

	for i, l := range s.Layers {
		pass := enc.BeginComputePass(nil)
		l.Dispatch(pass)
		pass.End()

		out := l.GetOutputBuffer()
		if i < len(s.Layers)-1 {
			enc.CopyBufferToBuffer(out, 0, s.Layers[i+1].GetInputBuffer(), 0, out.GetSize())
		} else {
			enc.CopyBufferToBuffer(out, 0, l.GetStagingBuffer(), 0, out.GetSize())
		}
	}

	cmd, err := enc.Finish(nil)
	if err != nil {
		return nil, err
	}
	ctx.Queue.Submit(cmd)

	last := s.Layers[len(s.Layers)-1]
	return readStagingBuffer(ctx, last.GetStagingBuffer(), s.outputLen)
}
