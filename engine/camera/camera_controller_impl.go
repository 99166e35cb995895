package camera

import (
	"math"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultDampingFactor is the share of queued orbit motion applied per 60 Hz frame.
const DefaultDampingFactor float32 = 0.05

// changeEpsilon is the squared distance below which an update counts as no motion.
const changeEpsilon = 1e-6

// orbitState is the spherical placement of the camera around its target.
type orbitState struct {
	target    mgl32.Vec3
	radius    float32
	azimuth   float32
	elevation float32
}

// cameraControllerImpl is the single implementation of CameraController.
// Input accumulates into pending deltas; Update drains a share of them each frame,
// so motion keeps easing out after the input stops.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	orbitState
	initial     orbitState
	initialFrom *mgl32.Vec3

	// Pending motion not yet applied by Update
	azimuthDelta   float32
	elevationDelta float32
	panOffset      mgl32.Vec3
	dollyScale     float32

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	sens Sensitivity

	dampingFactor float32
	intro         *gween.Tween
	introEnd      float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a damped orbit controller 15 units from the origin,
// 30 degrees above the horizon.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},
		orbitState: orbitState{
			radius:    15.0,
			azimuth:   0.0,
			elevation: float32(math.Pi / 6),
		},
		dollyScale: 1,

		minRadius:    1.0,
		maxRadius:    90.0,
		minElevation: -float32(math.Pi/2 - 0.01),
		maxElevation: float32(math.Pi/2 - 0.01),

		sens: DefaultSensitivity(),

		dampingFactor: DefaultDampingFactor,
	}

	for _, option := range options {
		option(cc)
	}

	if cc.initialFrom != nil {
		cc.setFromPosition(*cc.initialFrom)
		cc.initialFrom = nil
	}
	cc.radius = clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.initial = cc.orbitState
	cc.updatePosition()
	return cc
}

// --- internal helpers ---

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

// setFromPosition derives spherical coordinates from a world-space eye position.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) setFromPosition(p mgl32.Vec3) {
	offset := p.Sub(cc.target)
	cc.radius = offset.Len()
	if cc.radius == 0 {
		return
	}
	cc.azimuth = math32.Atan2(offset[0], offset[2])
	cc.elevation = math32.Asin(clamp(offset[1]/cc.radius, -1, 1))
}

// updatePosition recomputes the camera position from spherical coordinates.
// Must be called whenever radius, azimuth, elevation, or target changes.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	sinElev, cosElev := math32.Sincos(cc.elevation)
	sinAzim, cosAzim := math32.Sincos(cc.azimuth)

	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

// localAxes computes the camera's right and up axes consistent with the LookAt matrix.
// If position and target coincide, both are zero.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (right, up mgl32.Vec3) {
	back := cc.position.Sub(cc.target)
	if back.Len() < 1e-8 {
		return
	}
	back = back.Normalize()
	right = mgl32.Vec3{0, 1, 0}.Cross(back)
	if right.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	right = right.Normalize()
	up = back.Cross(right)
	return
}

// appliedShare converts the per-frame damping factor into the share of pending
// motion to apply for a frame of length dt.
func (cc *cameraControllerImpl) appliedShare(dt float32) float32 {
	if cc.dampingFactor <= 0 {
		return 1
	}
	if dt <= 0 {
		return cc.dampingFactor
	}
	return 1 - math32.Pow(1-cc.dampingFactor, dt*60)
}

// --- CameraController shared methods ---

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(t mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = t
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Update(dt float32) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	prevPosition, prevTarget := cc.position, cc.target
	share := cc.appliedShare(dt)

	cc.azimuth += cc.azimuthDelta * share
	cc.elevation = clamp(cc.elevation+cc.elevationDelta*share, cc.minElevation, cc.maxElevation)
	cc.target = cc.target.Add(cc.panOffset.Mul(share))

	if cc.intro != nil {
		radius, done := cc.intro.Update(dt)
		cc.radius = radius
		if done {
			cc.intro = nil
		}
	}
	cc.radius = clamp(cc.radius*cc.dollyScale, cc.minRadius, cc.maxRadius)
	cc.dollyScale = 1

	if share >= 1 {
		cc.azimuthDelta, cc.elevationDelta, cc.panOffset = 0, 0, mgl32.Vec3{}
	} else {
		cc.azimuthDelta *= 1 - share
		cc.elevationDelta *= 1 - share
		cc.panOffset = cc.panOffset.Mul(1 - share)
	}
	cc.updatePosition()

	moved := cc.position.Sub(prevPosition)
	shifted := cc.target.Sub(prevTarget)
	return moved.Dot(moved) > changeEpsilon || shifted.Dot(shifted) > changeEpsilon
}

func (cc *cameraControllerImpl) DampingFactor() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dampingFactor
}

func (cc *cameraControllerImpl) FlyIn(from, seconds float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if seconds <= 0 {
		return
	}
	if cc.intro == nil {
		cc.introEnd = cc.radius
	}
	cc.intro = gween.New(from, cc.introEnd, seconds, ease.OutCubic)
	cc.radius = from
	cc.updatePosition()
}

func (cc *cameraControllerImpl) FlyingIn() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.intro != nil
}

func (cc *cameraControllerImpl) Reset() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.orbitState = cc.initial
	cc.azimuthDelta, cc.elevationDelta = 0, 0
	cc.panOffset = mgl32.Vec3{}
	cc.dollyScale = 1
	cc.intro = nil
	cc.updatePosition()
}

// --- orbitCameraController implementation ---

func (cc *cameraControllerImpl) Rotate(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuthDelta -= dx * cc.sens.Drag
	cc.elevationDelta += dy * cc.sens.Drag
}

func (cc *cameraControllerImpl) OrbitLeft() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuthDelta -= cc.sens.Step
}

func (cc *cameraControllerImpl) OrbitRight() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuthDelta += cc.sens.Step
}

func (cc *cameraControllerImpl) OrbitUp() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevationDelta += cc.sens.Step
}

func (cc *cameraControllerImpl) OrbitDown() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevationDelta -= cc.sens.Step
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.intro = nil
	cc.dollyScale *= math32.Pow(0.95, delta*cc.sens.Zoom)
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = clamp(radius, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MinRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius
}

func (cc *cameraControllerImpl) MaxRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxRadius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = clamp(elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MinElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minElevation
}

func (cc *cameraControllerImpl) MaxElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxElevation
}

// --- planarCameraController implementation ---

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	right, up := cc.localAxes()
	scale := cc.sens.Pan * cc.radius
	cc.panOffset = cc.panOffset.
		Add(right.Mul(-dx * scale)).
		Add(up.Mul(dy * scale))
}

func (cc *cameraControllerImpl) Sensitivity() Sensitivity {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.sens
}
