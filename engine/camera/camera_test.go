package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = float32(1.0 / 60.0)

func groveController(options ...CameraControllerOption) CameraController {
	return NewCameraController(append([]CameraControllerOption{WithPosition(mgl32.Vec3{10, 5, 10})}, options...)...)
}

func TestControllerDerivesOrbitFromPosition(t *testing.T) {
	cc := groveController()
	assert.InDelta(t, 15, cc.Radius(), 1e-5)
	assert.InDelta(t, math.Pi/4, cc.Azimuth(), 1e-6)
	assert.InDelta(t, math.Asin(1.0/3.0), cc.Elevation(), 1e-6)
	assert.True(t, cc.Position().ApproxEqualThreshold(mgl32.Vec3{10, 5, 10}, 1e-4))
	assert.Equal(t, DefaultDampingFactor, cc.DampingFactor())
}

func TestDampedRotationConverges(t *testing.T) {
	cc := groveController()
	start := cc.Azimuth()
	cc.Rotate(100, 0)

	require.True(t, cc.Update(frame))
	first := start - cc.Azimuth()
	assert.InDelta(t, 0.5*0.05, first, 1e-4, "one frame applies the damping share")

	for range 600 {
		cc.Update(frame)
	}
	assert.InDelta(t, start-0.5, cc.Azimuth(), 1e-4)
	assert.False(t, cc.Update(frame), "motion has settled")
}

func TestUndampedRotationAppliesImmediately(t *testing.T) {
	cc := groveController(WithDamping(0))
	start := cc.Elevation()
	cc.Rotate(0, 20)
	cc.Update(frame)
	assert.InDelta(t, start+0.1, cc.Elevation(), 1e-6)
	assert.False(t, cc.Update(frame))
}

func TestDampingIsFrameRateIndependent(t *testing.T) {
	fast := groveController()
	slow := groveController()
	fast.Rotate(50, 0)
	slow.Rotate(50, 0)
	for range 4 {
		fast.Update(frame / 2)
	}
	slow.Update(frame * 2)
	assert.InDelta(t, fast.Azimuth(), slow.Azimuth(), 1e-5)
}

func TestElevationIsClamped(t *testing.T) {
	cc := groveController(WithDamping(0))
	cc.SetElevation(10)
	assert.Equal(t, cc.MaxElevation(), cc.Elevation())
	cc.Rotate(0, -1e6)
	cc.Update(frame)
	assert.Equal(t, cc.MinElevation(), cc.Elevation())
}

func TestZoomScalesRadius(t *testing.T) {
	cc := groveController()
	cc.Zoom(1)
	cc.Update(frame)
	assert.InDelta(t, 15*0.95, cc.Radius(), 1e-4)

	cc.Zoom(-1e4)
	cc.Update(frame)
	assert.Equal(t, cc.MaxRadius(), cc.Radius())
}

func TestPanMovesTargetAndEyeTogether(t *testing.T) {
	cc := groveController(WithDamping(0))
	before := cc.Position().Sub(cc.Target())
	cc.Pan(10, 0)
	cc.Update(frame)

	assert.NotEqual(t, mgl32.Vec3{}, cc.Target())
	assert.InDelta(t, 0, cc.Target()[1], 1e-6, "horizontal drag keeps the target height")
	after := cc.Position().Sub(cc.Target())
	assert.True(t, before.ApproxEqualThreshold(after, 1e-4))
}

func TestFlyInEndsAtConfiguredRadius(t *testing.T) {
	cc := groveController()
	cc.FlyIn(40, 2)
	assert.True(t, cc.FlyingIn())
	assert.InDelta(t, 40, cc.Radius(), 1e-5)

	cc.Update(1)
	mid := cc.Radius()
	assert.Less(t, mid, float32(40))
	assert.Greater(t, mid, float32(15))

	cc.Update(1.5)
	assert.False(t, cc.FlyingIn())
	assert.InDelta(t, 15, cc.Radius(), 1e-5)
}

func TestFlyInIgnoresNonPositiveDuration(t *testing.T) {
	cc := groveController()
	cc.FlyIn(40, 0)
	assert.False(t, cc.FlyingIn())
	assert.InDelta(t, 15, cc.Radius(), 1e-5)
}

func TestResetRestoresInitialOrbit(t *testing.T) {
	cc := groveController()
	cc.Rotate(300, 40)
	cc.Pan(5, 5)
	cc.Update(frame)
	cc.Reset()
	assert.True(t, cc.Position().ApproxEqualThreshold(mgl32.Vec3{10, 5, 10}, 1e-4))
	assert.Equal(t, mgl32.Vec3{}, cc.Target())
	assert.False(t, cc.Update(frame))
}

func TestCameraFollowsController(t *testing.T) {
	cc := groveController()
	cam := NewCamera(
		WithFov(mgl32.DegToRad(75)),
		WithAspect(16.0/9.0),
		WithController(cc),
	)
	assert.Equal(t, cc.Position(), cam.Position())

	vp := cam.ViewProjectionMatrix()
	centre := common.TransformPoint(vp[:], mgl32.Vec3{})
	assert.InDelta(t, 0, centre[0], 1e-5)
	assert.InDelta(t, 0, centre[1], 1e-5)

	f := cam.Frustum()
	assert.True(t, f.IntersectsSphere(mgl32.Vec3{0, 1.5, 0}, 0.5))
	assert.False(t, f.IntersectsSphere(cc.Position().Mul(3), 1), "behind the eye")

	cc.SetAzimuth(0)
	cam.Update()
	assert.InDelta(t, 0, cam.Position()[0], 1e-5)
}

func TestSetAspectRebuildsProjection(t *testing.T) {
	cam := NewCamera(WithLookAt(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}))
	before := cam.ProjectionMatrix()[0]
	cam.SetAspect(2)
	assert.InDelta(t, before/2, cam.ProjectionMatrix()[0], 1e-6)
}

func TestGPUCameraUniform(t *testing.T) {
	cam := NewCamera(WithLookAt(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}))
	u := NewGPUCameraUniform(cam, 4.5)
	buf := u.Marshal()
	assert.Len(t, buf, 80)
	assert.Equal(t, [3]float32{1, 2, 3}, u.CameraPosition)
	assert.Equal(t, float32(4.5), u.Time)
}

func TestSensitivityScalesDrag(t *testing.T) {
	sens := DefaultSensitivity()
	sens.Drag *= 2
	cc := NewCameraController(WithOrbit(10, 0, 0), WithDamping(0), WithSensitivity(sens))
	assert.Equal(t, sens, cc.Sensitivity())

	cc.Rotate(-10, 0)
	cc.Update(frame)
	assert.InDelta(t, 0.1, cc.Azimuth(), 1e-6)
}

func TestLensSettings(t *testing.T) {
	cam := NewCamera(WithClipRange(0.5, 50))
	lens := cam.Lens()
	assert.Equal(t, DefaultLens().Fov, lens.Fov)
	assert.Equal(t, float32(0.5), lens.Near)
	assert.Equal(t, float32(50), lens.Far)

	cam.SetLens(Lens{Fov: 1, Aspect: 2, Near: 1, Far: 10})
	assert.Equal(t, float32(2), cam.Aspect())
	assert.Equal(t, float32(1), cam.Fov())
}
