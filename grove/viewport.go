package grove

import (
	"sync"

	"github.com/Carmen-Shannon/mystic-grove/engine/camera"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer"
)

// MaxPixelRatio caps the drawing buffer density on high-DPI displays.
const MaxPixelRatio = 2

// ViewportState is the result of the latest resize.
type ViewportState struct {
	Width, Height int
	PixelRatio    float32
	Aspect        float32
}

// ViewportController keeps the camera projection and the renderer output in step with
// the window size.
type ViewportController struct {
	mu       *sync.Mutex
	camera   camera.Camera
	renderer renderer.Renderer
	maxRatio float32
	state    ViewportState
}

// NewViewportController creates a controller for the given camera and renderer,
// capping the pixel ratio at MaxPixelRatio.
//
// Parameters:
//   - c: the camera whose aspect follows the window
//   - r: the renderer whose output follows the window
//
// Returns:
//   - *ViewportController: the controller
func NewViewportController(c camera.Camera, r renderer.Renderer) *ViewportController {
	return &ViewportController{
		mu:       &sync.Mutex{},
		camera:   c,
		renderer: r,
		maxRatio: MaxPixelRatio,
	}
}

// SetMaxPixelRatio changes the pixel ratio cap. Non-positive values restore MaxPixelRatio.
// Takes effect on the next Resize.
func (v *ViewportController) SetMaxPixelRatio(ratio float32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if ratio <= 0 {
		ratio = MaxPixelRatio
	}
	v.maxRatio = ratio
}

// Resize applies a new logical window size and device pixel ratio. Applying the same
// values again leaves everything unchanged.
//
// Parameters:
//   - width, height: logical window size
//   - devicePixelRatio: physical pixels per logical pixel; non-positive means 1
//
// Returns:
//   - ViewportState: the applied state
func (v *ViewportController) Resize(width, height int, devicePixelRatio float32) ViewportState {
	v.mu.Lock()
	defer v.mu.Unlock()

	width, height = max(width, 0), max(height, 0)
	if devicePixelRatio <= 0 {
		devicePixelRatio = 1
	}
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	st := ViewportState{
		Width:      width,
		Height:     height,
		PixelRatio: min(devicePixelRatio, v.maxRatio),
		Aspect:     aspect,
	}

	// A minimised window keeps the last projection.
	if width > 0 && height > 0 && v.camera != nil {
		v.camera.SetAspect(aspect)
	}
	if v.renderer != nil {
		v.renderer.SetSize(width, height)
		v.renderer.SetPixelRatio(st.PixelRatio)
	}
	v.state = st
	return st
}

// State returns the latest applied state.
func (v *ViewportController) State() ViewportState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}
