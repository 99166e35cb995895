package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/mystic-grove/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewGameObjectDefaults(t *testing.T) {
	m := model.NewModel(model.Sphere{Radius: 1, WidthSegments: 8, HeightSegments: 8}, nil)
	obj := NewGameObject(WithModel(m))
	assert.True(t, obj.Enabled())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, obj.Scale())
	assert.Equal(t, m.Name(), obj.Name())
	assert.False(t, obj.CastShadow())
	assert.False(t, obj.ReceiveShadow())
	assert.True(t, obj.ModelMatrix().ApproxEqual(mgl32.Ident4()))
}

func TestModelMatrixComposesTranslateRotateScale(t *testing.T) {
	obj := NewGameObject(
		WithPosition(mgl32.Vec3{1, 2, 3}),
		WithRotation(mgl32.Vec3{0, mgl32.DegToRad(90), 0}),
		WithScale(mgl32.Vec3{2, 1, 1}),
	)
	// +X scaled by 2, rotated a quarter turn about Y lands on -Z.
	p := obj.ModelMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assert.InDelta(t, 1, p[0], 1e-5)
	assert.InDelta(t, 2, p[1], 1e-5)
	assert.InDelta(t, 1, p[2], 1e-5)
}

func TestEulerOrderIsXYZ(t *testing.T) {
	r := mgl32.Vec3{0.7, 0.2, 0.4}
	obj := NewGameObject(WithRotation(r))
	want := mgl32.HomogRotate3DX(r[0]).Mul4(mgl32.HomogRotate3DY(r[1])).Mul4(mgl32.HomogRotate3DZ(r[2]))
	assert.True(t, obj.ModelMatrix().ApproxEqualThreshold(want, 1e-6))
}

func TestNormalMatrixUndoesNonUniformScale(t *testing.T) {
	obj := NewGameObject(WithScale(mgl32.Vec3{1, 4, 1}))
	n := obj.NormalMatrix().Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	assert.InDelta(t, 0.25, n[1], 1e-6)

	flat := NewGameObject(WithScale(mgl32.Vec3{1, 0, 1}))
	assert.Equal(t, mgl32.Ident4(), flat.NormalMatrix())
}

func TestTranslateAccumulates(t *testing.T) {
	obj := NewGameObject(WithPosition(mgl32.Vec3{1, 0, 0}))
	obj.Translate(mgl32.Vec3{0.5, 0, -1})
	obj.Translate(mgl32.Vec3{0.5, 0, -1})
	assert.Equal(t, mgl32.Vec3{2, 0, -2}, obj.Position())
}
