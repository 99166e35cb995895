package renderer

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4; higher values are adapter-dependent.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend turns a prepared Frame into pixels on a surface.
// The Renderer does all scene traversal; a backend only owns GPU state.
type RendererBackend interface {
	// Type reports which GPU API the backend drives.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	Type() RendererBackendType

	// ConfigureSurface (re)creates the swapchain and the size-dependent attachments.
	// Called whenever the drawing buffer size changes; never called with a zero size.
	//
	// Parameters:
	//   - width: drawing buffer width in physical pixels
	//   - height: drawing buffer height in physical pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets how frames are delivered to the display.
	// Takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// DrawFrame renders and presents one frame: the shadow pass for Frame.ShadowCasters
	// when Frame.Shadow is set, then the opaque and transparent lists in order.
	//
	// Parameters:
	//   - frame: the prepared frame, valid only for the duration of the call
	//
	// Returns:
	//   - error: an error if the surface could not be acquired or a resource failed to upload
	DrawFrame(frame *Frame) error

	// Release frees every GPU resource held by the backend.
	Release()
}
