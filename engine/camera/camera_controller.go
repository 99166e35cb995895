package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController owns the eye and target a Camera reads each frame. It orbits a
// pivot in spherical coordinates and pans the pivot along the view plane.
//
// Input methods only queue motion. Update applies the queued motion, easing it in
// over several frames when damping is enabled.
type CameraController interface {
	orbitCameraController
	planarCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the look-at/pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - t: world-space coordinates
	SetTarget(t mgl32.Vec3)

	// Update applies queued rotate, pan and zoom input and advances the intro fly-in.
	//
	// Parameters:
	//   - dt: seconds since the previous update
	//
	// Returns:
	//   - bool: true if the camera position or target changed
	Update(dt float32) bool

	// DampingFactor returns the share of queued motion applied per 60 Hz frame,
	// or 0 when damping is disabled.
	//
	// Returns:
	//   - float32: the damping factor
	DampingFactor() float32

	// FlyIn animates the orbit radius from a starting distance to the current radius.
	//
	// Parameters:
	//   - from: the starting radius
	//   - seconds: duration of the animation; <= 0 does nothing
	FlyIn(from, seconds float32)

	// FlyingIn reports whether the intro animation is still running.
	//
	// Returns:
	//   - bool: true while animating
	FlyingIn() bool

	// Reset restores the target and spherical coordinates the controller was
	// created with and drops any queued motion.
	Reset()
}

// orbitCameraController defines orbit-specific control methods.
// Provides third-person orbit controls using spherical coordinates (radius, azimuth, elevation)
// relative to the target/pivot point.
type orbitCameraController interface {
	// Rotate queues an orbit from a mouse drag.
	//
	// Parameters:
	//   - dx, dy: cursor movement in pixels
	Rotate(dx, dy float32)

	// OrbitLeft queues a left rotation around the target by one orbit speed step.
	OrbitLeft()

	// OrbitRight queues a right rotation around the target by one orbit speed step.
	OrbitRight()

	// OrbitUp queues an upward tilt by one orbit speed step.
	OrbitUp()

	// OrbitDown queues a downward tilt by one orbit speed step.
	OrbitDown()

	// Zoom queues a change of orbit radius. Positive delta zooms in.
	//
	// Parameters:
	//   - delta: zoom amount, typically scroll wheel steps
	Zoom(delta float32)

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// MinRadius returns the minimum allowed orbit radius.
	//
	// Returns:
	//   - float32: minimum zoom distance
	MinRadius() float32

	// MaxRadius returns the maximum allowed orbit radius.
	//
	// Returns:
	//   - float32: maximum zoom distance
	MaxRadius() float32

	// Azimuth returns the current horizontal angle around the Y axis, measured from +Z.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// SetAzimuth sets the horizontal angle directly and recomputes position.
	//
	// Parameters:
	//   - azimuth: new horizontal angle in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// SetElevation sets the vertical angle directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - elevation: new vertical angle in radians
	SetElevation(elevation float32)

	// MinElevation returns the minimum allowed elevation angle.
	//
	// Returns:
	//   - float32: minimum elevation in radians
	MinElevation() float32

	// MaxElevation returns the maximum allowed elevation angle.
	//
	// Returns:
	//   - float32: maximum elevation in radians
	MaxElevation() float32
}

// planarCameraController defines planar translation control methods.
// Panning shifts both position and target by the same offset, preserving the
// orbit relationship.
type planarCameraController interface {
	// Pan queues a translation from a mouse drag along the camera's right and up axes.
	// The distance moved scales with the orbit radius.
	//
	// Parameters:
	//   - dx, dy: cursor movement in pixels
	Pan(dx, dy float32)

	// Sensitivity returns the input scales in use.
	Sensitivity() Sensitivity
}
