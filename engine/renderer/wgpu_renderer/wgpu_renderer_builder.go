package wgpu_renderer

import "github.com/Carmen-Shannon/mystic-grove/engine/renderer"

// BackendBuilderOption is a functional option applied to the backend during construction via NewBackend.
type BackendBuilderOption func(*wgpuRendererBackend)

// WithMSAA sets the multisample count of the main render pass. Defaults to renderer.MSAA4x.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - BackendBuilderOption: a function that applies the MSAA option to the backend
func WithMSAA(count renderer.MSAASampleCount) BackendBuilderOption {
	return func(b *wgpuRendererBackend) {
		b.sampleCount = max(count, renderer.MSAAOff)
	}
}

// WithPresentMode sets the initial present mode. Defaults to renderer.PresentModeVSync.
//
// Parameters:
//   - mode: the PresentMode to use
//
// Returns:
//   - BackendBuilderOption: a function that applies the present mode option to the backend
func WithPresentMode(mode renderer.PresentMode) BackendBuilderOption {
	return func(b *wgpuRendererBackend) {
		b.requestedPresentMode = mode
	}
}

// WithForceSoftwareRenderer requests the adapter's fallback (CPU) implementation.
//
// Parameters:
//   - force: true to use the fallback adapter
//
// Returns:
//   - BackendBuilderOption: a function that applies the fallback adapter option to the backend
func WithForceSoftwareRenderer(force bool) BackendBuilderOption {
	return func(b *wgpuRendererBackend) {
		b.forceFallbackAdapter = force
	}
}
