package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithLens replaces the default projection settings.
//
// Parameters:
//   - lens: the projection settings
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's lens
func WithLens(lens Lens) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lens = lens
	}
}

// WithFov sets the vertical field of view in radians.
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lens.Fov = fov
	}
}

// WithAspect sets the projection aspect (width / height).
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lens.Aspect = aspect
	}
}

// WithClipRange sets the near and far clip distances.
//
// Parameters:
//   - near: distance of the near plane, must be positive
//   - far: distance of the far plane
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip range
func WithClipRange(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lens.Near = near
		c.lens.Far = far
	}
}

// WithLookAt places the eye and target of a camera that has no controller.
//
// Parameters:
//   - eye: the eye position
//   - target: the look-at point
//
// Returns:
//   - CameraBuilderOption: a function that sets the eye and target
func WithLookAt(eye, target mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.eye = eye
		c.target = target
	}
}

// WithController attaches a controller. NewCamera takes its first pose from it.
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
