package renderer

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/mystic-grove/engine/camera"
	"github.com/Carmen-Shannon/mystic-grove/engine/light"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/material"
	"github.com/Carmen-Shannon/mystic-grove/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultMaterial is drawn for models that carry no material.
var DefaultMaterial = material.NewMaterial(material.WithName("default"))

// ErrNilTarget is returned by Render when the scene or camera is nil.
var ErrNilTarget = errors.New("renderer: nil scene or camera")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend RendererBackend

	width, height int
	pixelRatio    float32

	// Drawing buffer size the backend surface is currently configured for.
	bufferWidth, bufferHeight int

	frustumCulling bool
	shadows        bool

	clock func() time.Time
	start time.Time

	stats FrameStats
	frame Frame
}

// Renderer draws a scene from a camera onto its output surface.
//
// The output surface has a logical size (window coordinates) and a pixel ratio; the
// drawing buffer is their product rounded to whole pixels. The renderer walks the scene
// each frame, culls objects outside the camera frustum, sorts them and hands the prepared
// Frame to its backend.
type Renderer interface {
	// Render draws one frame of the scene as seen by the camera.
	// Inactive scenes and a zero-sized output are skipped without error.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - c: the camera to draw from
	//
	// Returns:
	//   - error: ErrNilTarget, or a wrapped backend error
	Render(s scene.Scene, c camera.Camera) error

	// SetSize sets the logical output size and reconfigures the drawing buffer if its
	// physical size changed.
	//
	// Parameters:
	//   - width: logical width
	//   - height: logical height
	SetSize(width, height int)

	// Size returns the logical output size.
	//
	// Returns:
	//   - int: logical width
	//   - int: logical height
	Size() (int, int)

	// SetPixelRatio sets the number of drawing buffer pixels per logical pixel and
	// reconfigures the drawing buffer if its physical size changed. Non-positive
	// ratios are treated as 1.
	//
	// Parameters:
	//   - ratio: the pixel ratio
	SetPixelRatio(ratio float32)

	// PixelRatio returns the current pixel ratio.
	//
	// Returns:
	//   - float32: the pixel ratio
	PixelRatio() float32

	// DrawingBufferSize returns the physical size of the output surface.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	DrawingBufferSize() (int, int)

	// SetPresentMode changes how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Stats returns counters for the last rendered frame.
	//
	// Returns:
	//   - FrameStats: the counters
	Stats() FrameStats

	// Release frees the backend's GPU resources. The renderer must not be used afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing through the given backend.
// Panics if backend is nil.
//
// Parameters:
//   - backend: the GPU backend that presents frames
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer
func NewRenderer(backend RendererBackend, options ...RendererBuilderOption) Renderer {
	if backend == nil {
		panic("renderer: backend must not be nil")
	}
	r := &renderer{
		mu:             &sync.Mutex{},
		backend:        backend,
		pixelRatio:     1,
		frustumCulling: true,
		shadows:        true,
		clock:          time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	r.start = r.clock()
	r.reconfigure()
	return r
}

func (r *renderer) SetSize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = max(width, 0), max(height, 0)
	r.reconfigure()
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) SetPixelRatio(ratio float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ratio <= 0 {
		ratio = 1
	}
	r.pixelRatio = ratio
	r.reconfigure()
}

func (r *renderer) PixelRatio() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pixelRatio
}

func (r *renderer) DrawingBufferSize() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bufferWidth, r.bufferHeight
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.SetPresentMode(mode)
	if r.bufferWidth > 0 && r.bufferHeight > 0 {
		r.backend.ConfigureSurface(r.bufferWidth, r.bufferHeight)
	}
}

func (r *renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
}

// reconfigure recomputes the drawing buffer size and reconfigures the backend surface
// only when it changed. Must be called with mu held.
func (r *renderer) reconfigure() {
	w := int(math.Round(float64(float32(r.width) * r.pixelRatio)))
	h := int(math.Round(float64(float32(r.height) * r.pixelRatio)))
	if w == r.bufferWidth && h == r.bufferHeight {
		return
	}
	r.bufferWidth, r.bufferHeight = w, h
	if w > 0 && h > 0 {
		r.backend.ConfigureSurface(w, h)
	}
}

func (r *renderer) Render(s scene.Scene, c camera.Camera) error {
	if s == nil || c == nil {
		return ErrNilTarget
	}
	if !s.Active() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bufferWidth == 0 || r.bufferHeight == 0 {
		return nil
	}

	r.prepare(s, c)
	if err := r.backend.DrawFrame(&r.frame); err != nil {
		return fmt.Errorf("failed to draw scene %q: %w", s.Name(), err)
	}
	return nil
}

// prepare fills r.frame from the scene and camera. Must be called with mu held.
// The frame's slices are reused between frames.
func (r *renderer) prepare(s scene.Scene, c camera.Camera) {
	f := &r.frame
	f.Width, f.Height = r.bufferWidth, r.bufferHeight
	f.Clear = s.Background()
	f.Shadow = nil
	f.ShadowCasters = f.ShadowCasters[:0]
	f.Opaque = f.Opaque[:0]
	f.Transparent = f.Transparent[:0]

	lighting, sun := light.Pack(s.Lights())
	if sun != nil && sun.CastsShadows() && r.shadows {
		cfg := sun.Shadow()
		f.Shadow = &cfg
	} else {
		lighting.Direction[3] = 0
	}

	f.Uniform = GPUFrameUniform{
		Camera:   camera.NewGPUCameraUniform(c, float32(r.clock().Sub(r.start).Seconds())),
		Lighting: lighting,
	}
	if fog := s.Fog(); fog != nil {
		f.Uniform.FogColor = [4]float32{fog.Color[0], fog.Color[1], fog.Color[2], 0}
		f.Uniform.Params = [4]float32{fog.Near, fog.Far, 1, 0}
	}

	frustum := c.Frustum()
	eye := c.Position()
	stats := FrameStats{}

	for _, obj := range s.Objects() {
		if !obj.Enabled() || obj.Model() == nil {
			continue
		}
		m := obj.Model()
		mesh := m.Mesh()
		if mesh == nil || mesh.IndexCount() == 0 {
			continue
		}
		stats.Objects++

		modelMatrix := obj.ModelMatrix()
		center := modelMatrix.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
		scale := obj.Scale()
		radius := m.BoundingRadius() * max(math32.Abs(scale[0]), math32.Abs(scale[1]), math32.Abs(scale[2]))

		mat := m.Material()
		if mat == nil {
			mat = DefaultMaterial
		}
		key := m.Name()
		if g := m.Geometry(); g != nil {
			key = g.Key()
		}
		item := DrawItem{
			ID:       obj.ID(),
			MeshKey:  key,
			Mesh:     mesh,
			Material: mat,
			Object:   newObjectUniform(modelMatrix, obj.NormalMatrix(), obj.ReceiveShadow() && f.Shadow != nil),
			Distance: center.Sub(eye).Len(),
		}

		if f.Shadow != nil && obj.CastShadow() {
			f.ShadowCasters = append(f.ShadowCasters, item)
		}
		if r.frustumCulling && !frustum.IntersectsSphere(center, radius) {
			stats.Culled++
			continue
		}
		if mat.Transparent() {
			f.Transparent = append(f.Transparent, item)
		} else {
			f.Opaque = append(f.Opaque, item)
		}
	}

	slices.SortStableFunc(f.Opaque, func(a, b DrawItem) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	slices.SortStableFunc(f.Transparent, func(a, b DrawItem) int {
		return cmp.Compare(b.Distance, a.Distance)
	})

	stats.Drawn = len(f.Opaque) + len(f.Transparent)
	stats.ShadowCasters = len(f.ShadowCasters)
	r.stats = stats
}
