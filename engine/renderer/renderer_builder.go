package renderer

import "time"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithSize sets the initial logical output size.
//
// Parameters:
//   - width: logical width
//   - height: logical height
//
// Returns:
//   - RendererBuilderOption: a function that applies the size option to a renderer
func WithSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width, r.height = max(width, 0), max(height, 0)
	}
}

// WithPixelRatio sets the initial pixel ratio. Non-positive values are ignored.
//
// Parameters:
//   - ratio: drawing buffer pixels per logical pixel
//
// Returns:
//   - RendererBuilderOption: a function that applies the pixel ratio option to a renderer
func WithPixelRatio(ratio float32) RendererBuilderOption {
	return func(r *renderer) {
		if ratio > 0 {
			r.pixelRatio = ratio
		}
	}
}

// WithFrustumCulling enables or disables skipping objects outside the camera frustum.
// Enabled by default.
//
// Parameters:
//   - enabled: true to cull
//
// Returns:
//   - RendererBuilderOption: a function that applies the culling option to a renderer
func WithFrustumCulling(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.frustumCulling = enabled
	}
}

// WithShadows enables or disables the shadow pass. Enabled by default; when disabled
// no object receives shadows even if the scene's directional light casts them.
//
// Parameters:
//   - enabled: true to render shadows
//
// Returns:
//   - RendererBuilderOption: a function that applies the shadows option to a renderer
func WithShadows(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.shadows = enabled
	}
}

// WithClock replaces the time source used for the elapsed time passed to shaders.
//
// Parameters:
//   - clock: returns the current time
//
// Returns:
//   - RendererBuilderOption: a function that applies the clock option to a renderer
func WithClock(clock func() time.Time) RendererBuilderOption {
	return func(r *renderer) {
		if clock != nil {
			r.clock = clock
		}
	}
}
