package light

import (
	"testing"

	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groveSun() Light {
	return NewLight(
		WithPosition(mgl32.Vec3{10, 15, 10}),
		WithTarget(mgl32.Vec3{0, 1.5, 0}),
		WithIntensity(2),
		WithShadow(ShadowConfig{MapSize: 2048, Near: 1, Far: 20, Left: -10, Right: 10, Top: 10, Bottom: -10, Bias: DefaultShadowBias}),
	)
}

func TestDirectionPointsTowardsLight(t *testing.T) {
	l := groveSun()
	want := mgl32.Vec3{10, 13.5, 10}.Normalize()
	assert.True(t, l.Direction().ApproxEqual(want))

	same := NewLight(WithPosition(mgl32.Vec3{1, 1, 1}), WithTarget(mgl32.Vec3{1, 1, 1}))
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, same.Direction())
}

func TestAmbientNeverCastsShadows(t *testing.T) {
	l := NewLight(WithType(LightTypeAmbient), WithShadow(DefaultShadowConfig()))
	assert.False(t, l.CastsShadows())
}

func TestShadowViewProjectionCentresTarget(t *testing.T) {
	l := groveSun()
	vp := ShadowViewProjection(l)

	target := common.TransformPoint(vp[:], l.Target())
	assert.InDelta(t, 0, target[0], 1e-4)
	assert.InDelta(t, 0, target[1], 1e-4)

	dist := l.Position().Sub(l.Target()).Len()
	wantDepth := (dist - 1) / (20 - 1)
	assert.InDelta(t, wantDepth, target[2], 1e-4)

	eye := common.TransformPoint(vp[:], l.Position())
	assert.Less(t, eye[2], float32(0), "light position sits in front of the near plane")
}

func TestShadowViewProjectionStraightDown(t *testing.T) {
	l := NewLight(WithPosition(mgl32.Vec3{0, 10, 0}), WithShadow(DefaultShadowConfig()))
	vp := ShadowViewProjection(l)
	for _, v := range vp {
		assert.False(t, v != v, "matrix contains NaN")
	}
}

func TestPack(t *testing.T) {
	lights := []Light{
		NewAmbientLight(common.Color{1, 1, 1}, 0.5),
		NewAmbientLight(common.Color{1, 0, 0}, 0.25),
		groveSun(),
		NewLight(WithIntensity(9)),
	}
	g, sun := Pack(lights)
	require.Same(t, lights[2], sun)
	assert.Equal(t, [4]float32{0.75, 0.5, 0.5, 0}, g.Ambient)
	assert.Equal(t, float32(1), g.Direction[3])
	assert.Equal(t, [3]float32{2, 2, 2}, [3]float32{g.Color[0], g.Color[1], g.Color[2]})
	assert.Equal(t, float32(1)/2048, g.Color[3])
	assert.Equal(t, 128, g.Size())
	assert.Len(t, g.Marshal(), 128)
}

func TestPackWithoutDirectional(t *testing.T) {
	disabled := groveSun()
	disabled.SetEnabled(false)
	g, sun := Pack([]Light{disabled, nil})
	assert.Nil(t, sun)
	assert.Equal(t, [4]float32{0, 1, 0, 0}, g.Direction)
	assert.Equal(t, float32(1), g.LightViewProj[0])
}
