package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are GPU allocated resources owned by this provider and released with it.

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized by the backend.
	bindGroup *wgpu.BindGroup
	// buffers holds the GPU buffers created for this provider, keyed by binding index.
	buffers map[int]*wgpu.Buffer

	// vertexBuffer is the GPU vertex buffer of a mesh provider, or nil.
	vertexBuffer *wgpu.Buffer
	// indexBuffer is the GPU index buffer of a mesh provider, or nil.
	indexBuffer *wgpu.Buffer
	// indexCount is the number of indices for draw calls.
	indexCount int

	// signature describes the inputs the bind group was built from. The backend compares
	// it against the current inputs to decide whether the bind group is stale.
	signature uint64
}

// BindGroupProvider owns the GPU resources a single draw input needs: a bind group and
// the uniform buffers behind it, or the vertex and index buffers of a mesh.
//
// Usage pattern:
//  1. The backend creates a provider per mesh, material or game object on first use
//  2. The backend creates buffers and the bind group and stores them on the provider
//  3. Each frame the backend queues BufferWrites against the provider's buffers
//  4. Draw calls bind BindGroup() or the mesh buffers
//
// Texture views and samplers referenced by a bind group are shared across providers and
// are not owned by them.
type BindGroupProvider interface {
	// Release releases the GPU resources owned by this provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// Buffer returns the buffer at a binding index.
	// Returns nil if GPU resources have not been initialized.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// VertexBuffer returns the GPU vertex buffer, or nil if not initialized.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the GPU index buffer, or nil if not initialized.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices for draw calls.
	IndexCount() int

	// Signature returns the value recorded by the last SetSignature call.
	//
	// Returns:
	//   - uint64: the signature
	Signature() uint64

	// SetBindGroup replaces the bind group, releasing the previous one.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBuffer stores a buffer for a binding index, releasing any buffer it replaces.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetMesh stores the vertex and index buffers of a mesh, releasing any it replaces.
	//
	// Parameters:
	//   - vertices: the vertex buffer
	//   - indices: the index buffer
	//   - count: the number of indices to draw
	SetMesh(vertices, indices *wgpu.Buffer, count int)

	// SetSignature records the inputs the current bind group was built from.
	//
	// Parameters:
	//   - sig: an opaque value that changes whenever the inputs change
	SetSignature(sig uint64)
}

// BufferWrite is a queued upload into one of a provider's buffers. The backend gathers a
// frame's writes and flushes them to the queue before encoding any pass.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Data     []byte
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: a debug label for the provider's GPU objects
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		buffers: make(map[int]*wgpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) Signature() uint64 {
	return p.signature
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	if old := p.buffers[binding]; old != nil && old != buf {
		old.Release()
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetMesh(vertices, indices *wgpu.Buffer, count int) {
	if p.vertexBuffer != nil && p.vertexBuffer != vertices {
		p.vertexBuffer.Release()
	}
	if p.indexBuffer != nil && p.indexBuffer != indices {
		p.indexBuffer.Release()
	}
	p.vertexBuffer = vertices
	p.indexBuffer = indices
	p.indexCount = count
}

func (p *bindGroupProvider) SetSignature(sig uint64) {
	p.signature = sig
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
}
