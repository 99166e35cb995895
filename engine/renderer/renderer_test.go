package renderer

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/Carmen-Shannon/mystic-grove/engine/camera"
	"github.com/Carmen-Shannon/mystic-grove/engine/game_object"
	"github.com/Carmen-Shannon/mystic-grove/engine/light"
	"github.com/Carmen-Shannon/mystic-grove/engine/model"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/material"
	"github.com/Carmen-Shannon/mystic-grove/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBackend struct {
	configured [][2]int
	frames     []Frame
	mode       PresentMode
	err        error
	released   bool
}

func (b *recordingBackend) Type() RendererBackendType { return BackendTypeWGPU }

func (b *recordingBackend) ConfigureSurface(width, height int) {
	b.configured = append(b.configured, [2]int{width, height})
}

func (b *recordingBackend) SetPresentMode(mode PresentMode) { b.mode = mode }

func (b *recordingBackend) DrawFrame(frame *Frame) error {
	if b.err != nil {
		return b.err
	}
	cp := *frame
	cp.Opaque = append([]DrawItem(nil), frame.Opaque...)
	cp.Transparent = append([]DrawItem(nil), frame.Transparent...)
	cp.ShadowCasters = append([]DrawItem(nil), frame.ShadowCasters...)
	b.frames = append(b.frames, cp)
	return nil
}

func (b *recordingBackend) Release() { b.released = true }

var ball = model.NewModel(model.Sphere{Radius: 1, WidthSegments: 8, HeightSegments: 8}, nil)

func lookingDownZ() camera.Camera {
	return camera.NewCamera(camera.WithLookAt(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}), camera.WithAspect(1))
}

func TestDrawingBufferFollowsSizeAndRatio(t *testing.T) {
	b := &recordingBackend{}
	r := NewRenderer(b, WithSize(800, 600), WithPixelRatio(2))

	w, h := r.DrawingBufferSize()
	assert.Equal(t, [2]int{1600, 1200}, [2]int{w, h})
	require.Len(t, b.configured, 1)

	r.SetSize(800, 600)
	r.SetPixelRatio(2)
	assert.Len(t, b.configured, 1, "unchanged size must not reconfigure")

	r.SetPixelRatio(1.5)
	assert.Equal(t, [2]int{1200, 900}, b.configured[1])
	assert.Equal(t, float32(1.5), r.PixelRatio())

	r.SetPixelRatio(-1)
	assert.Equal(t, float32(1), r.PixelRatio())
	lw, lh := r.Size()
	assert.Equal(t, [2]int{800, 600}, [2]int{lw, lh})
}

func TestZeroSizeSkipsConfigureAndRender(t *testing.T) {
	b := &recordingBackend{}
	r := NewRenderer(b)
	assert.Empty(t, b.configured)

	s := scene.NewScene(scene.WithObjects(game_object.NewGameObject(game_object.WithModel(ball))))
	require.NoError(t, r.Render(s, lookingDownZ()))
	assert.Empty(t, b.frames)

	r.SetSize(0, 300)
	assert.Empty(t, b.configured)
}

func TestRenderRejectsNilTargets(t *testing.T) {
	r := NewRenderer(&recordingBackend{}, WithSize(10, 10))
	assert.ErrorIs(t, r.Render(nil, lookingDownZ()), ErrNilTarget)
	assert.ErrorIs(t, r.Render(scene.NewScene(), nil), ErrNilTarget)
}

func TestRenderSkipsInactiveScene(t *testing.T) {
	b := &recordingBackend{}
	r := NewRenderer(b, WithSize(10, 10))
	require.NoError(t, r.Render(scene.NewScene(scene.WithActive(false)), lookingDownZ()))
	assert.Empty(t, b.frames)
}

func TestRenderCullsAndSorts(t *testing.T) {
	glass := model.NewModel(model.Sphere{Radius: 1, WidthSegments: 8, HeightSegments: 8},
		material.NewMaterial(material.WithOpacity(0.5)))

	near := game_object.NewGameObject(game_object.WithModel(ball), game_object.WithPosition(mgl32.Vec3{0, 0, 5}))
	far := game_object.NewGameObject(game_object.WithModel(ball), game_object.WithPosition(mgl32.Vec3{0, 0, -5}))
	behind := game_object.NewGameObject(game_object.WithModel(ball), game_object.WithPosition(mgl32.Vec3{0, 0, 30}),
		game_object.WithShadows(true, false))
	hidden := game_object.NewGameObject(game_object.WithModel(ball), game_object.WithEnabled(false))
	glassNear := game_object.NewGameObject(game_object.WithModel(glass), game_object.WithPosition(mgl32.Vec3{1, 0, 2}))
	glassFar := game_object.NewGameObject(game_object.WithModel(glass), game_object.WithPosition(mgl32.Vec3{1, 0, -2}))

	sun := light.NewLight(light.WithPosition(mgl32.Vec3{10, 15, 10}), light.WithShadow(light.DefaultShadowConfig()))
	s := scene.NewScene(
		scene.WithObjects(far, near, behind, hidden, glassNear, glassFar),
		scene.WithLights(sun),
		scene.WithBackground(common.RGB(0x223344)),
	)

	b := &recordingBackend{}
	r := NewRenderer(b, WithSize(100, 100))
	require.NoError(t, r.Render(s, lookingDownZ()))
	require.Len(t, b.frames, 1)
	f := b.frames[0]

	require.Len(t, f.Opaque, 2)
	assert.Equal(t, near.ID(), f.Opaque[0].ID)
	assert.Equal(t, far.ID(), f.Opaque[1].ID)
	require.Len(t, f.Transparent, 2)
	assert.Equal(t, glassFar.ID(), f.Transparent[0].ID)
	assert.Equal(t, glassNear.ID(), f.Transparent[1].ID)

	require.NotNil(t, f.Shadow)
	require.Len(t, f.ShadowCasters, 1)
	assert.Equal(t, behind.ID(), f.ShadowCasters[0].ID, "casters outside the view still cast")
	assert.Same(t, DefaultMaterial, f.Opaque[0].Material)
	assert.Equal(t, common.RGB(0x223344), f.Clear)
	assert.Equal(t, float32(1), f.Uniform.Lighting.Direction[3])

	stats := r.Stats()
	assert.Equal(t, FrameStats{Objects: 5, Drawn: 4, Culled: 1, ShadowCasters: 1}, stats)
}

func TestShadowsDisabled(t *testing.T) {
	sun := light.NewLight(light.WithShadow(light.DefaultShadowConfig()))
	obj := game_object.NewGameObject(game_object.WithModel(ball), game_object.WithShadows(true, true))
	s := scene.NewScene(scene.WithObjects(obj), scene.WithLights(sun))

	b := &recordingBackend{}
	r := NewRenderer(b, WithSize(10, 10), WithShadows(false))
	require.NoError(t, r.Render(s, lookingDownZ()))
	f := b.frames[0]
	assert.Nil(t, f.Shadow)
	assert.Empty(t, f.ShadowCasters)
	assert.Zero(t, f.Uniform.Lighting.Direction[3])
	assert.Zero(t, f.Opaque[0].Object.Flags[0])
}

func TestFrameUniformCarriesFogAndTime(t *testing.T) {
	start := time.Unix(100, 0)
	now := start
	clock := func() time.Time { return now }

	s := scene.NewScene(scene.WithFog(scene.Fog{Color: common.RGB(0x223344), Near: 5, Far: 20}))
	b := &recordingBackend{}
	r := NewRenderer(b, WithSize(10, 10), WithClock(clock))

	now = start.Add(1500 * time.Millisecond)
	require.NoError(t, r.Render(s, lookingDownZ()))
	u := b.frames[0].Uniform
	assert.InDelta(t, 1.5, u.Camera.Time, 1e-6)
	assert.Equal(t, [4]float32{5, 20, 1, 0}, u.Params)
	assert.InDelta(t, float32(0x22)/255, u.FogColor[0], 1e-6)
	assert.Equal(t, 240, u.Size())
	assert.Len(t, u.Marshal(), 240)
}

func TestBackendErrorIsWrapped(t *testing.T) {
	boom := errors.New("surface lost")
	b := &recordingBackend{err: boom}
	r := NewRenderer(b, WithSize(10, 10))
	err := r.Render(scene.NewScene(scene.WithName("grove")), lookingDownZ())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"grove"`)
}

func TestPresentModeReconfigures(t *testing.T) {
	b := &recordingBackend{}
	r := NewRenderer(b, WithSize(10, 10))
	r.SetPresentMode(PresentModeVSync)
	assert.Equal(t, PresentModeVSync, b.mode)
	assert.Len(t, b.configured, 2)
	r.Release()
	assert.True(t, b.released)
}

func TestObjectUniformSize(t *testing.T) {
	var u GPUObjectUniform
	assert.Equal(t, 144, u.Size())
	assert.Len(t, u.Marshal(), 144)
}
