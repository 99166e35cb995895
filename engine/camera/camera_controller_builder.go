package camera

import "github.com/go-gl/mathgl/mgl32"

// Sensitivity scales each kind of camera input.
type Sensitivity struct {
	// Drag is radians of orbit per pixel of rotate drag.
	Drag float32
	// Step is radians of orbit per arrow key press.
	Step float32
	// Zoom multiplies scroll wheel deltas.
	Zoom float32
	// Pan is world units per pixel of pan drag, per unit of orbit radius.
	Pan float32
}

// DefaultSensitivity returns the input scales used when WithSensitivity is not given.
func DefaultSensitivity() Sensitivity {
	return Sensitivity{Drag: 0.005, Step: 0.03, Zoom: 1, Pan: 0.002}
}

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithTarget sets the pivot point the camera orbits and looks at.
//
// Parameters:
//   - t: world-space target
//
// Returns:
//   - CameraControllerOption: a function that sets the orbit target
func WithTarget(t mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = t
	}
}

// WithOrbit places the camera in spherical coordinates around the target.
//
// Parameters:
//   - radius: distance from the target
//   - azimuth: angle around the Y axis in radians, 0 faces +Z
//   - elevation: angle above the horizontal plane in radians
//
// Returns:
//   - CameraControllerOption: a function that sets the orbit placement
func WithOrbit(radius, azimuth, elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius, cc.azimuth, cc.elevation = radius, azimuth, elevation
	}
}

// WithPosition places the camera at a world-space eye position. The orbit is derived
// from it relative to the target after every option has run, so it wins over WithOrbit.
//
// Parameters:
//   - p: the eye position
//
// Returns:
//   - CameraControllerOption: a function that sets the eye position
func WithPosition(p mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.initialFrom = &p
	}
}

// WithRadiusBounds limits how close and how far zooming can take the camera.
func WithRadiusBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = min
		cc.maxRadius = max
	}
}

// WithSensitivity replaces DefaultSensitivity.
func WithSensitivity(s Sensitivity) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.sens = s
	}
}

// WithDamping sets the share of queued motion applied per 60 Hz frame.
// A factor of 0 disables damping so input is applied in full on the next update.
//
// Parameters:
//   - factor: the damping factor in [0, 1)
//
// Returns:
//   - CameraControllerOption: a function that sets the damping factor
func WithDamping(factor float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.dampingFactor = clamp(factor, 0, 0.999)
	}
}
