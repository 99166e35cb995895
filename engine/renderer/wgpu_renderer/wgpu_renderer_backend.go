// Package wgpu_renderer draws prepared renderer frames with WebGPU.
package wgpu_renderer

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/mystic-grove/engine/renderer"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/material"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrSurfaceNotConfigured is returned by DrawFrame before the first ConfigureSurface call.
var ErrSurfaceNotConfigured = errors.New("wgpu: surface not configured")

type wgpuRendererBackend struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	forceFallbackAdapter bool
	requestedPresentMode renderer.PresentMode
	presentMode          wgpu.PresentMode
	sampleCount          renderer.MSAASampleCount

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	// encodeSRGB is set when the surface has no sRGB format and the lit program must
	// encode its output itself.
	encodeSRGB bool

	width, height uint32
	msaaTexture   *gpuTexture
	depthTexture  *gpuTexture

	frameLayout       *wgpu.BindGroupLayout
	shadowFrameLayout *wgpu.BindGroupLayout
	materialLayout    *wgpu.BindGroupLayout
	objectLayout      *wgpu.BindGroupLayout
	litLayout         *wgpu.PipelineLayout
	shadowLayout      *wgpu.PipelineLayout

	modules                     map[string]*wgpu.ShaderModule
	opaque, transparent, shadow pipeline.Pipeline
	frame, shadowFrame          bind_group_provider.BindGroupProvider
	comparisonSampler           *wgpu.Sampler
	shadowMap                   *gpuTexture
	shadowMapSize               uint32
	placeholder                 *gpuTexture

	textures  map[textureKey]*gpuTexture
	samplers  map[samplerKey]*wgpu.Sampler
	meshes    map[string]bind_group_provider.BindGroupProvider
	materials map[material.Material]bind_group_provider.BindGroupProvider
	objects   map[uint64]bind_group_provider.BindGroupProvider

	// Per-frame scratch state, reused between frames.
	writes []bind_group_provider.BufferWrite
	live   map[uint64]struct{}
}

var _ renderer.RendererBackend = &wgpuRendererBackend{}

// NewBackend creates the WebGPU device for a window surface and builds every pipeline
// the lit program needs. The surface is not configured until the first ConfigureSurface.
// Panics if no adapter or device is available or a pipeline fails to build.
//
// Parameters:
//   - surfaceDescriptor: the platform surface of the target window
//   - options: variadic list of BackendBuilderOption functions to configure the backend
//
// Returns:
//   - renderer.RendererBackend: the backend, ready to pass to renderer.NewRenderer
func NewBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...BackendBuilderOption) renderer.RendererBackend {
	runtime.LockOSThread()
	b := &wgpuRendererBackend{
		mu:                   &sync.Mutex{},
		instance:             wgpu.CreateInstance(nil),
		requestedPresentMode: renderer.PresentModeVSync,
		sampleCount:          renderer.MSAA4x,
		modules:              make(map[string]*wgpu.ShaderModule),
		textures:             make(map[textureKey]*gpuTexture),
		samplers:             make(map[samplerKey]*wgpu.Sampler),
		meshes:               make(map[string]bind_group_provider.BindGroupProvider),
		materials:            make(map[material.Material]bind_group_provider.BindGroupProvider),
		objects:              make(map[uint64]bind_group_provider.BindGroupProvider),
		live:                 make(map[uint64]struct{}),
	}
	for _, opt := range options {
		opt(b)
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	b.chooseSurfaceFormat()
	b.applyPresentMode()

	for _, step := range []func() error{b.createLayouts, b.createPipelines, b.createFrameResources, b.createPlaceholder} {
		if err := step(); err != nil {
			panic(fmt.Errorf("wgpu: failed to initialise backend: %w", err))
		}
	}
	return b
}

// chooseSurfaceFormat prefers an sRGB surface so blending happens in linear space.
func (b *wgpuRendererBackend) chooseSurfaceFormat() {
	caps := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = caps.Formats[0]
	b.encodeSRGB = true
	for _, f := range []wgpu.TextureFormat{wgpu.TextureFormatBGRA8UnormSrgb, wgpu.TextureFormatRGBA8UnormSrgb} {
		if slices.Contains(caps.Formats, f) {
			b.surfaceFormat = f
			b.encodeSRGB = false
			break
		}
	}
	b.alphaMode = caps.AlphaModes[0]
}

func (b *wgpuRendererBackend) applyPresentMode() {
	b.presentMode = wgpu.PresentModeFifo
	if b.requestedPresentMode == renderer.PresentModeUncapped {
		caps := b.surface.GetCapabilities(b.adapter)
		if slices.Contains(caps.PresentModes, wgpu.PresentModeImmediate) {
			b.presentMode = wgpu.PresentModeImmediate
		}
	}
}

func (b *wgpuRendererBackend) Type() renderer.RendererBackendType {
	return renderer.BackendTypeWGPU
}

func (b *wgpuRendererBackend) SetPresentMode(mode renderer.PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requestedPresentMode = mode
	b.applyPresentMode()
}

func (b *wgpuRendererBackend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.width, b.height = uint32(width), uint32(height)
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       b.width,
		Height:      b.height,
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})

	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
	}

	count := uint32(b.sampleCount)
	if count > 1 {
		b.msaaTexture = b.createAttachment("MSAA Texture", b.surfaceFormat, count)
	}
	// Depth sample count must match the color attachment.
	b.depthTexture = b.createAttachment("Depth Texture", mainDepthFormat, count)
}

// createAttachment creates a render attachment the size of the surface.
// Panics on failure, like surface configuration itself.
func (b *wgpuRendererBackend) createAttachment(label string, format wgpu.TextureFormat, samples uint32) *gpuTexture {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              b.width,
			Height:             b.height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		panic(err)
	}
	return &gpuTexture{texture: tex, view: view}
}

func (b *wgpuRendererBackend) DrawFrame(f *renderer.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.width == 0 || b.height == 0 || b.depthTexture == nil {
		return ErrSurfaceNotConfigured
	}
	if f.Shadow != nil {
		if err := b.ensureShadowMap(f.Shadow.MapSize); err != nil {
			return err
		}
	}
	if err := b.stage(f); err != nil {
		return err
	}
	b.flushWrites()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	if f.Shadow != nil {
		if err := b.encodeShadowPass(encoder, f.ShadowCasters); err != nil {
			return err
		}
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	if err := b.encodeMainPass(encoder, view, f); err != nil {
		return err
	}

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer commandBuffer.Release()
	b.queue.Submit(commandBuffer)
	b.surface.Present()
	return nil
}

// stage makes sure every GPU resource a frame references exists and queues the frame's
// uniform writes. Per-object resources of objects no longer drawn are released.
func (b *wgpuRendererBackend) stage(f *renderer.Frame) error {
	b.writes = b.writes[:0]
	clear(b.live)

	uniform := f.Uniform
	if b.encodeSRGB {
		uniform.Params[3] = 1
	}
	b.writes = append(b.writes, bind_group_provider.BufferWrite{Provider: b.frame, Binding: 0, Data: uniform.Marshal()})

	seenMaterials := make(map[material.Material]struct{})
	for _, list := range [][]renderer.DrawItem{f.ShadowCasters, f.Opaque, f.Transparent} {
		for i := range list {
			item := &list[i]
			if _, err := b.meshProvider(item); err != nil {
				return fmt.Errorf("failed to upload mesh %s: %w", item.MeshKey, err)
			}
			obj, err := b.objectProvider(item.ID)
			if err != nil {
				return err
			}
			if _, ok := b.live[item.ID]; !ok {
				b.live[item.ID] = struct{}{}
				b.writes = append(b.writes, bind_group_provider.BufferWrite{Provider: obj, Binding: 0, Data: item.Object.Marshal()})
			}
			if _, ok := seenMaterials[item.Material]; ok {
				continue
			}
			seenMaterials[item.Material] = struct{}{}
			mat, err := b.materialProvider(item.Material)
			if err != nil {
				return err
			}
			params := material.Params(item.Material)
			b.writes = append(b.writes, bind_group_provider.BufferWrite{Provider: mat, Binding: bindingMaterialParams, Data: params.Marshal()})
		}
	}

	for id, p := range b.objects {
		if _, ok := b.live[id]; !ok {
			p.Release()
			delete(b.objects, id)
		}
	}
	return nil
}

func (b *wgpuRendererBackend) flushWrites() {
	for _, w := range b.writes {
		if buf := w.Provider.Buffer(w.Binding); buf != nil {
			b.queue.WriteBuffer(buf, 0, w.Data)
		}
	}
}

func (b *wgpuRendererBackend) encodeShadowPass(encoder *wgpu.CommandEncoder, casters []renderer.DrawItem) error {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.shadowMap.view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	pass.SetPipeline(b.shadow.Pipeline())
	pass.SetBindGroup(0, b.shadowFrame.BindGroup(), nil)
	for i := range casters {
		item := &casters[i]
		mesh := b.meshes[item.MeshKey]
		pass.SetBindGroup(1, b.objects[item.ID].BindGroup(), nil)
		pass.SetVertexBuffer(0, mesh.VertexBuffer(), 0, wgpu.WholeSize)
		pass.SetIndexBuffer(mesh.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(mesh.IndexCount()), 1, 0, 0, 0)
	}
	pass.End()
	return nil
}

func (b *wgpuRendererBackend) encodeMainPass(encoder *wgpu.CommandEncoder, target *wgpu.TextureView, f *renderer.Frame) error {
	clearColor := f.Clear
	if !b.encodeSRGB {
		clearColor = clearColor.Linear()
	}
	color := wgpu.RenderPassColorAttachment{
		View:    target,
		LoadOp:  wgpu.LoadOpClear,
		StoreOp: wgpu.StoreOpStore,
		ClearValue: wgpu.Color{
			R: float64(clearColor[0]), G: float64(clearColor[1]), B: float64(clearColor[2]), A: 1,
		},
	}
	if b.msaaTexture != nil {
		color.View = b.msaaTexture.view
		color.ResolveTarget = target
		color.StoreOp = wgpu.StoreOpDiscard
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTexture.view,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	pass.SetBindGroup(groupFrame, b.frame.BindGroup(), nil)
	b.drawList(pass, b.opaque, f.Opaque)
	b.drawList(pass, b.transparent, f.Transparent)
	pass.End()
	return nil
}

func (b *wgpuRendererBackend) drawList(pass *wgpu.RenderPassEncoder, p pipeline.Pipeline, items []renderer.DrawItem) {
	if len(items) == 0 {
		return
	}
	pass.SetPipeline(p.Pipeline())
	for i := range items {
		item := &items[i]
		mesh := b.meshes[item.MeshKey]
		pass.SetBindGroup(groupMaterial, b.materials[item.Material].BindGroup(), nil)
		pass.SetBindGroup(groupObject, b.objects[item.ID].BindGroup(), nil)
		pass.SetVertexBuffer(0, mesh.VertexBuffer(), 0, wgpu.WholeSize)
		pass.SetIndexBuffer(mesh.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(mesh.IndexCount()), 1, 0, 0, 0)
	}
}

func (b *wgpuRendererBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for k, p := range b.objects {
		p.Release()
		delete(b.objects, k)
	}
	for k, p := range b.meshes {
		p.Release()
		delete(b.meshes, k)
	}
	for k, p := range b.materials {
		p.Release()
		delete(b.materials, k)
	}
	for k, t := range b.textures {
		t.Release()
		delete(b.textures, k)
	}
	for k, s := range b.samplers {
		s.Release()
		delete(b.samplers, k)
	}
	for k, m := range b.modules {
		m.Release()
		delete(b.modules, k)
	}
	for _, p := range []pipeline.Pipeline{b.opaque, b.transparent, b.shadow} {
		if p != nil {
			p.Release()
		}
	}
	for _, p := range []bind_group_provider.BindGroupProvider{b.shadowFrame, b.frame} {
		if p != nil {
			p.Release()
		}
	}
	for _, t := range []*gpuTexture{b.shadowMap, b.placeholder, b.msaaTexture, b.depthTexture} {
		if t != nil {
			t.Release()
		}
	}
	if b.comparisonSampler != nil {
		b.comparisonSampler.Release()
	}
	for _, l := range []*wgpu.PipelineLayout{b.litLayout, b.shadowLayout} {
		if l != nil {
			l.Release()
		}
	}
	for _, l := range []*wgpu.BindGroupLayout{b.frameLayout, b.shadowFrameLayout, b.materialLayout, b.objectLayout} {
		if l != nil {
			l.Release()
		}
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}
