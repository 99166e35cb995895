package wgpu_renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/Carmen-Shannon/mystic-grove/engine/loader"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
)

// gpuTexture is an uploaded texture and its default view.
type gpuTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (t *gpuTexture) Release() {
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

// textureKey identifies an upload; the same image may be uploaded as colour (sRGB) and as data.
type textureKey struct {
	source *loader.Texture
	format wgpu.TextureFormat
}

type samplerKey struct {
	u, v loader.Wrap
}

func addressMode(w loader.Wrap) wgpu.AddressMode {
	switch w {
	case loader.WrapRepeat:
		return wgpu.AddressModeRepeat
	case loader.WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeClampToEdge
	}
}

// uploadTexture creates a texture with every staged mip level.
func (b *wgpuRendererBackend) uploadTexture(label string, data *common.TextureStagingData, format wgpu.TextureFormat) (*gpuTexture, error) {
	levels := uint32(max(len(data.Mips), 1))
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Usage: wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Size: wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		MipLevelCount: levels,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %s: %w", label, err)
	}

	for level, pixels := range data.Mips {
		w, h := data.MipSize(level)
		b.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: uint32(level),
				Origin:   wgpu.Origin3D{},
				Aspect:   wgpu.TextureAspectAll,
			},
			pixels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  w * 4,
				RowsPerImage: h,
			},
			&wgpu.Extent3D{
				Width:              w,
				Height:             h,
				DepthOrArrayLayers: 1,
			},
		)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create view for texture %s: %w", label, err)
	}
	return &gpuTexture{texture: tex, view: view}, nil
}

// textureView returns the view of a material map, uploading it on first use. Maps whose
// pixels have not resolved yet read the white placeholder.
func (b *wgpuRendererBackend) textureView(t *loader.Texture, format wgpu.TextureFormat) (*wgpu.TextureView, error) {
	if t == nil || t.Data() == nil {
		return b.placeholder.view, nil
	}
	key := textureKey{source: t, format: format}
	if cached, ok := b.textures[key]; ok {
		return cached.view, nil
	}
	uploaded, err := b.uploadTexture(t.Path(), t.Data(), format)
	if err != nil {
		return nil, err
	}
	b.textures[key] = uploaded
	return uploaded.view, nil
}

func (b *wgpuRendererBackend) sampler(u, v loader.Wrap) (*wgpu.Sampler, error) {
	key := samplerKey{u: u, v: v}
	if s, ok := b.samplers[key]; ok {
		return s, nil
	}
	s, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Material Sampler",
		AddressModeU:  addressMode(u),
		AddressModeV:  addressMode(v),
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 8,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}
	b.samplers[key] = s
	return s, nil
}

// meshProvider returns the vertex and index buffers for a draw item, uploading them the
// first time its mesh key is seen.
func (b *wgpuRendererBackend) meshProvider(item *renderer.DrawItem) (bind_group_provider.BindGroupProvider, error) {
	if p, ok := b.meshes[item.MeshKey]; ok {
		return p, nil
	}
	p := bind_group_provider.NewBindGroupProvider(item.MeshKey)
	vertices, indices := item.Mesh.VertexBytes(), item.Mesh.IndexBytes()

	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: item.MeshKey + " Vertex Buffer",
		Size:  uint64(len(vertices)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: item.MeshKey + " Index Buffer",
		Size:  uint64(len(indices)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return nil, err
	}
	b.queue.WriteBuffer(vb, 0, vertices)
	b.queue.WriteBuffer(ib, 0, indices)

	p.SetMesh(vb, ib, item.Mesh.IndexCount())
	b.meshes[item.MeshKey] = p
	return p, nil
}

// uniformProvider creates a provider holding one uniform buffer at binding 0 and a bind
// group over it.
func (b *wgpuRendererBackend) uniformProvider(label string, layout *wgpu.BindGroupLayout, size uint64) (bind_group_provider.BindGroupProvider, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Uniform Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	p := bind_group_provider.NewBindGroupProvider(label, bind_group_provider.WithBuffer(0, buf))
	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		p.Release()
		return nil, err
	}
	p.SetBindGroup(bg)
	return p, nil
}

func (b *wgpuRendererBackend) objectProvider(id uint64) (bind_group_provider.BindGroupProvider, error) {
	if p, ok := b.objects[id]; ok {
		return p, nil
	}
	p, err := b.uniformProvider(fmt.Sprintf("Object %d", id), b.objectLayout, objectUniformSize)
	if err != nil {
		return nil, err
	}
	b.objects[id] = p
	return p, nil
}

// samplingMap returns the map whose wrap modes drive the material's sampler, matching the
// precedence material.UVRepeat uses for tiling.
func samplingMap(m material.Material) *loader.Texture {
	for _, t := range []*loader.Texture{m.ColorMap(), m.NormalMap(), m.RoughnessMap(), m.AlphaMap()} {
		if t != nil {
			return t
		}
	}
	return nil
}

// materialProvider returns the bind group of a material, rebuilding it when one of its
// maps has finished loading since the last frame.
func (b *wgpuRendererBackend) materialProvider(m material.Material) (bind_group_provider.BindGroupProvider, error) {
	p, ok := b.materials[m]
	if !ok {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: m.Name() + " Material Buffer",
			Size:  materialUniformSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, err
		}
		p = bind_group_provider.NewBindGroupProvider(m.Name(), bind_group_provider.WithBuffer(bindingMaterialParams, buf))
		b.materials[m] = p
	}

	wrapU, wrapV := loader.WrapRepeat, loader.WrapRepeat
	if t := samplingMap(m); t != nil {
		wrapU, wrapV = t.Wrap()
	}
	resolved := material.ResolvedMaps(m)
	signature := uint64(resolved) | uint64(wrapU)<<8 | uint64(wrapV)<<16
	if p.BindGroup() != nil && p.Signature() == signature {
		return p, nil
	}

	samp, err := b.sampler(wrapU, wrapV)
	if err != nil {
		return nil, err
	}
	entries := []wgpu.BindGroupEntry{
		{Binding: bindingMaterialParams, Buffer: p.Buffer(bindingMaterialParams), Offset: 0, Size: wgpu.WholeSize},
		{Binding: bindingMaterialSampler, Sampler: samp},
	}
	for _, slot := range []struct {
		binding uint32
		texture *loader.Texture
		format  wgpu.TextureFormat
	}{
		{bindingColorMap, m.ColorMap(), wgpu.TextureFormatRGBA8UnormSrgb},
		{bindingNormalMap, m.NormalMap(), wgpu.TextureFormatRGBA8Unorm},
		{bindingRoughnessMap, m.RoughnessMap(), wgpu.TextureFormatRGBA8Unorm},
		{bindingAlphaMap, m.AlphaMap(), wgpu.TextureFormatRGBA8Unorm},
	} {
		view, err := b.textureView(slot.texture, slot.format)
		if err != nil {
			return nil, err
		}
		entries = append(entries, wgpu.BindGroupEntry{Binding: slot.binding, TextureView: view})
	}

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   p.Label() + " Material Bind Group",
		Layout:  b.materialLayout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group for material %q: %w", m.Name(), err)
	}
	p.SetBindGroup(bg)
	p.SetSignature(signature)
	return p, nil
}

// createPlaceholder uploads the 1x1 white texture bound in place of missing maps.
func (b *wgpuRendererBackend) createPlaceholder() error {
	white := &common.TextureStagingData{Mips: [][]byte{{255, 255, 255, 255}}, Width: 1, Height: 1}
	var err error
	b.placeholder, err = b.uploadTexture("Placeholder Texture", white, wgpu.TextureFormatRGBA8Unorm)
	return err
}

// ensureShadowMap (re)creates the shadow depth texture at the requested size and rebuilds
// the frame bind group that samples it.
func (b *wgpuRendererBackend) ensureShadowMap(size uint32) error {
	size = max(size, 1)
	if b.shadowMap != nil && b.shadowMapSize == size {
		return nil
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Shadow Depth Texture",
		Size: wgpu.Extent3D{
			Width:              size,
			Height:             size,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        shadowDepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("failed to create shadow depth texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("failed to create shadow depth texture view: %w", err)
	}

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Frame Bind Group",
		Layout: b.frameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: b.frame.Buffer(0), Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: view},
			{Binding: 2, Sampler: b.comparisonSampler},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return fmt.Errorf("failed to create frame bind group: %w", err)
	}

	if b.shadowMap != nil {
		b.shadowMap.Release()
	}
	b.shadowMap = &gpuTexture{texture: tex, view: view}
	b.shadowMapSize = size
	b.frame.SetBindGroup(bg)
	return nil
}

func (b *wgpuRendererBackend) createFrameResources() error {
	var err error
	b.comparisonSampler, err = b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Shadow Comparison Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		Compare:       wgpu.CompareFunctionLess,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create comparison sampler: %w", err)
	}

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Uniform Buffer",
		Size:  frameUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.frame = bind_group_provider.NewBindGroupProvider("Frame", bind_group_provider.WithBuffer(0, buf))

	// The shadow pass binds the frame uniform without the shadow map it renders into.
	// The buffer stays owned by the frame provider.
	shadowBG, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Shadow Frame Bind Group",
		Layout: b.shadowFrameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return err
	}
	b.shadowFrame = bind_group_provider.NewBindGroupProvider("Shadow Frame")
	b.shadowFrame.SetBindGroup(shadowBG)

	return b.ensureShadowMap(1)
}
