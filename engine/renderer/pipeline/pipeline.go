package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the render state a pipeline is built from and, once built, the WebGPU pipeline object.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// vertexShader is required; a nil fragmentShader builds a depth-only pipeline.
	vertexShader, fragmentShader shader.Shader

	// renderPipeline is nil until SetRenderPipeline is called by the backend
	renderPipeline *wgpu.RenderPipeline

	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	sampleCount         uint32
}

// Pipeline describes a render pipeline: its shader stages plus the depth, blend and
// multisample state it is created with. Every pipeline draws double-sided triangle lists.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader associated with the specified type if it exists, nil otherwise.
	//
	// Parameters:
	//   - shaderType: the type of shader to retrieve (vertex or fragment)
	//
	// Returns:
	//   - shader.Shader: the shader associated with the specified type, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// Pipeline returns the underlying render pipeline, or nil before it is built.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the WebGPU render pipeline
	Pipeline() *wgpu.RenderPipeline

	// Descriptor assembles the WebGPU creation descriptor for this pipeline.
	//
	// Parameters:
	//   - layout: the pipeline layout holding the bind group layouts the shaders use
	//   - vertexModule: the compiled module of the vertex shader
	//   - fragmentModule: the compiled module of the fragment shader, ignored by depth-only pipelines
	//   - colorFormat: the format of the color attachment, ignored by depth-only pipelines
	//   - depthFormat: the format of the depth attachment
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor ready for device.CreateRenderPipeline
	Descriptor(layout *wgpu.PipelineLayout, vertexModule, fragmentModule *wgpu.ShaderModule, colorFormat, depthFormat wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor

	// SetRenderPipeline sets the render pipeline, releasing any previous one.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release frees the WebGPU render pipeline.
	Release()
}

var _ Pipeline = &pipeline{}

// alphaBlend composites straight alpha over the target.
var alphaBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// NewPipeline is the entry point to create a new Pipeline interface.
// Panics if no vertex shader is provided.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthWriteEnabled: true,
		sampleCount:       1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.vertexShader == nil {
		panic(fmt.Sprintf("pipeline: %s has no vertex shader", pipelineKey))
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Pipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) Descriptor(layout *wgpu.PipelineLayout, vertexModule, fragmentModule *wgpu.ShaderModule, colorFormat, depthFormat wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor {
	vs := p.vertexShader
	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.pipelineKey,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vertexModule,
			EntryPoint: vs.EntryPoint(),
			Buffers:    vs.VertexLayouts(),
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: p.sampleCount,
			Mask:  0xFFFFFFFF,
		},
	}

	desc.DepthStencil = &wgpu.DepthStencilState{
		Format:              depthFormat,
		DepthWriteEnabled:   p.depthWriteEnabled,
		DepthCompare:        wgpu.CompareFunctionLess,
		DepthBias:           p.depthBias,
		DepthBiasSlopeScale: p.depthBiasSlopeScale,
		StencilFront:        wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:         wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}

	if fs := p.fragmentShader; fs != nil {
		target := wgpu.ColorTargetState{
			Format:    colorFormat,
			WriteMask: wgpu.ColorWriteMaskAll,
		}
		if p.blendEnabled {
			target.Blend = &alphaBlend
		}
		desc.Fragment = &wgpu.FragmentState{
			Module:     fragmentModule,
			EntryPoint: fs.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		}
	}
	return desc
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	if p.renderPipeline != nil && p.renderPipeline != rp {
		p.renderPipeline.Release()
	}
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
