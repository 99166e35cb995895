package wgpu_renderer

import (
	"embed"
	"fmt"

	"github.com/Carmen-Shannon/mystic-grove/engine/model"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/material"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed shaders/*.wgsl
var shaderFS embed.FS

const (
	mainDepthFormat   = wgpu.TextureFormatDepth24Plus
	shadowDepthFormat = wgpu.TextureFormatDepth32Float
)

// Bind group indices of the lit program.
const (
	groupFrame    = 0
	groupMaterial = 1
	groupObject   = 2
)

// Bindings of the material group.
const (
	bindingMaterialParams = iota
	bindingMaterialSampler
	bindingColorMap
	bindingNormalMap
	bindingRoughnessMap
	bindingAlphaMap
)

var (
	frameUniformSize    = uint64(new(renderer.GPUFrameUniform).Size())
	objectUniformSize   = uint64(new(renderer.GPUObjectUniform).Size())
	materialUniformSize = uint64(new(material.GPUMaterialParams).Size())
)

// vertexLayout describes model.GPUVertex.
var vertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: model.GPUVertexSize,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: model.GPUVertexPositionOffset, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: model.GPUVertexNormalOffset, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x2, Offset: model.GPUVertexTexCoordOffset, ShaderLocation: 2},
		{Format: wgpu.VertexFormatFloat32x4, Offset: model.GPUVertexTangentOffset, ShaderLocation: 3},
	},
}

func uniformEntry(binding uint32, visibility wgpu.ShaderStage, size uint64) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: size,
		},
	}
}

func textureEntry(binding uint32, sampleType wgpu.TextureSampleType) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Texture: wgpu.TextureBindingLayout{
			SampleType:    sampleType,
			ViewDimension: wgpu.TextureViewDimension2D,
		},
	}
}

func samplerEntry(binding uint32, samplerType wgpu.SamplerBindingType) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
		Sampler:    wgpu.SamplerBindingLayout{Type: samplerType},
	}
}

var (
	frameLayoutDescriptor = wgpu.BindGroupLayoutDescriptor{
		Label: "Frame Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, frameUniformSize),
			textureEntry(1, wgpu.TextureSampleTypeDepth),
			samplerEntry(2, wgpu.SamplerBindingTypeComparison),
		},
	}

	shadowFrameLayoutDescriptor = wgpu.BindGroupLayoutDescriptor{
		Label: "Shadow Frame Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, wgpu.ShaderStageVertex, frameUniformSize),
		},
	}

	materialLayoutDescriptor = wgpu.BindGroupLayoutDescriptor{
		Label: "Material Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(bindingMaterialParams, wgpu.ShaderStageFragment, materialUniformSize),
			samplerEntry(bindingMaterialSampler, wgpu.SamplerBindingTypeFiltering),
			textureEntry(bindingColorMap, wgpu.TextureSampleTypeFloat),
			textureEntry(bindingNormalMap, wgpu.TextureSampleTypeFloat),
			textureEntry(bindingRoughnessMap, wgpu.TextureSampleTypeFloat),
			textureEntry(bindingAlphaMap, wgpu.TextureSampleTypeFloat),
		},
	}

	objectLayoutDescriptor = wgpu.BindGroupLayoutDescriptor{
		Label: "Object Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, objectUniformSize),
		},
	}
)

// createLayouts creates the bind group and pipeline layouts every pipeline is built against.
func (b *wgpuRendererBackend) createLayouts() error {
	var err error
	create := func(desc *wgpu.BindGroupLayoutDescriptor) *wgpu.BindGroupLayout {
		if err != nil {
			return nil
		}
		var layout *wgpu.BindGroupLayout
		layout, err = b.device.CreateBindGroupLayout(desc)
		if err != nil {
			err = fmt.Errorf("failed to create %s: %w", desc.Label, err)
		}
		return layout
	}
	b.frameLayout = create(&frameLayoutDescriptor)
	b.shadowFrameLayout = create(&shadowFrameLayoutDescriptor)
	b.materialLayout = create(&materialLayoutDescriptor)
	b.objectLayout = create(&objectLayoutDescriptor)
	if err != nil {
		return err
	}

	b.litLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Lit Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.frameLayout, b.materialLayout, b.objectLayout},
	})
	if err != nil {
		return err
	}
	b.shadowLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Shadow Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.shadowFrameLayout, b.objectLayout},
	})
	return err
}

// createPipelines compiles the embedded programs and builds the opaque, transparent and
// shadow pipelines. Must run after createLayouts and after the surface format is known.
func (b *wgpuRendererBackend) createPipelines() error {
	litVS, err := shader.NewShaderFromFS(shaderFS, "shaders/lit.wgsl", shader.ShaderTypeVertex,
		shader.WithVertexLayouts(vertexLayout))
	if err != nil {
		return err
	}
	litFS, err := shader.NewShaderFromFS(shaderFS, "shaders/lit.wgsl", shader.ShaderTypeFragment)
	if err != nil {
		return err
	}
	shadowVS, err := shader.NewShaderFromFS(shaderFS, "shaders/shadow.wgsl", shader.ShaderTypeVertex,
		shader.WithVertexLayouts(vertexLayout))
	if err != nil {
		return err
	}

	samples := uint32(b.sampleCount)
	b.opaque = pipeline.NewPipeline("Opaque",
		pipeline.WithVertexShader(litVS),
		pipeline.WithFragmentShader(litFS),
		pipeline.WithSampleCount(samples),
	)
	b.transparent = pipeline.NewPipeline("Transparent",
		pipeline.WithVertexShader(litVS),
		pipeline.WithFragmentShader(litFS),
		pipeline.WithSampleCount(samples),
		pipeline.WithBlendEnabled(true),
		pipeline.WithDepthWriteEnabled(false),
	)
	b.shadow = pipeline.NewPipeline("Shadow",
		pipeline.WithVertexShader(shadowVS),
		pipeline.WithDepthBias(2, 2),
	)

	for _, p := range []pipeline.Pipeline{b.opaque, b.transparent} {
		if err := b.buildPipeline(p, b.litLayout, mainDepthFormat); err != nil {
			return err
		}
	}
	return b.buildPipeline(b.shadow, b.shadowLayout, shadowDepthFormat)
}

func (b *wgpuRendererBackend) buildPipeline(p pipeline.Pipeline, layout *wgpu.PipelineLayout, depthFormat wgpu.TextureFormat) error {
	vs, err := b.shaderModule(p.Shader(shader.ShaderTypeVertex))
	if err != nil {
		return err
	}
	var fs *wgpu.ShaderModule
	if s := p.Shader(shader.ShaderTypeFragment); s != nil {
		if fs, err = b.shaderModule(s); err != nil {
			return err
		}
	}
	created, err := b.device.CreateRenderPipeline(p.Descriptor(layout, vs, fs, b.surfaceFormat, depthFormat))
	if err != nil {
		return fmt.Errorf("failed to create %s pipeline: %w", p.PipelineKey(), err)
	}
	p.SetRenderPipeline(created)
	return nil
}

// shaderModule compiles a shader once per source key.
func (b *wgpuRendererBackend) shaderModule(s shader.Shader) (*wgpu.ShaderModule, error) {
	if m, ok := b.modules[s.Key()]; ok {
		return m, nil
	}
	m, err := b.device.CreateShaderModule(s.Module())
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", s.Key(), err)
	}
	b.modules[s.Key()] = m
	return m, nil
}
