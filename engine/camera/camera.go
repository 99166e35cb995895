package camera

import (
	"sync"

	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Lens holds the perspective projection settings of a camera.
type Lens struct {
	// Fov is the vertical field of view in radians.
	Fov    float32
	Aspect float32
	Near   float32
	Far    float32
}

// DefaultLens is a 45 degree lens with a square aspect and a 0.1 to 100 clip range.
func DefaultLens() Lens {
	return Lens{Fov: mgl32.DegToRad(45), Aspect: 1, Near: 0.1, Far: 100}
}

// worldUp is the up axis of every camera. The grove is never viewed rolled.
var worldUp = mgl32.Vec3{0, 1, 0}

type cameraImpl struct {
	mu *sync.Mutex

	eye    mgl32.Vec3
	target mgl32.Vec3
	lens   Lens

	projection     [16]float32
	viewProjection [16]float32
	frustum        common.Frustum

	controller CameraController
}

// Camera is a perspective camera looking from an eye point at a target.
// When a CameraController is attached, Update copies the eye and target from it
// before rebuilding the matrices.
type Camera interface {
	// Position returns the eye position of the current matrices.
	Position() mgl32.Vec3

	// Target returns the look-at point of the current matrices.
	Target() mgl32.Vec3

	// Lens returns the projection settings.
	Lens() Lens

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the width over height ratio of the projection.
	Aspect() float32

	// ProjectionMatrix returns the column-major projection matrix.
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the column-major product of projection and view.
	ViewProjectionMatrix() [16]float32

	// Frustum returns the clip planes of ViewProjectionMatrix, used for culling.
	Frustum() common.Frustum

	// Controller returns the attached controller, or nil.
	Controller() CameraController

	// Update pulls the eye and target from the controller, if any, and rebuilds the matrices.
	// Call it once per frame after the controller has been updated.
	Update()

	// LookAt places the eye and target directly. An attached controller overrides them
	// on the next Update.
	//
	// Parameters:
	//   - eye: the eye position
	//   - target: the look-at point
	LookAt(eye, target mgl32.Vec3)

	// SetLens replaces every projection setting at once.
	//
	// Parameters:
	//   - lens: the new projection settings
	SetLens(lens Lens)

	// SetFov changes the vertical field of view.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// SetAspect changes the projection aspect, typically after the viewport is resized.
	//
	// Parameters:
	//   - aspect: width divided by height
	SetAspect(aspect float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with DefaultLens, its eye at (0, 0, 1) looking at the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:   &sync.Mutex{},
		eye:  mgl32.Vec3{0, 0, 1},
		lens: DefaultLens(),
	}
	for _, option := range options {
		option(c)
	}
	c.sync()
	return c
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Lens() Lens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lens
}

func (c *cameraImpl) Fov() float32 {
	return c.Lens().Fov
}

func (c *cameraImpl) Aspect() float32 {
	return c.Lens().Aspect
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjection
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frustum
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sync()
}

func (c *cameraImpl) LookAt(eye, target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eye, c.target = eye, target
	c.rebuild()
}

func (c *cameraImpl) SetLens(lens Lens) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lens = lens
	c.rebuild()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lens.Fov = fov
	c.rebuild()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lens.Aspect = aspect
	c.rebuild()
}

// sync pulls the controller pose and rebuilds. Caller must hold the mutex.
func (c *cameraImpl) sync() {
	if c.controller != nil {
		c.eye = c.controller.Position()
		c.target = c.controller.Target()
	}
	c.rebuild()
}

// rebuild recomputes the matrices and frustum. Caller must hold the mutex.
func (c *cameraImpl) rebuild() {
	var view [16]float32
	common.LookAt(view[:], c.eye, c.target, worldUp)
	common.Perspective(c.projection[:], c.lens.Fov, c.lens.Aspect, c.lens.Near, c.lens.Far)
	common.Mul4(c.viewProjection[:], c.projection[:], view[:])
	c.frustum = common.ExtractFrustumFromMatrix(c.viewProjection[:])
}
