package grove

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Carmen-Shannon/mystic-grove/engine/game_object"
	"github.com/Carmen-Shannon/mystic-grove/engine/light"
	"github.com/Carmen-Shannon/mystic-grove/engine/loader"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/material"
	"github.com/Carmen-Shannon/mystic-grove/grove/placement"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	configured [][2]int
	frames     int
	lastFrame  renderer.Frame
	err        error
}

func (b *fakeBackend) Type() renderer.RendererBackendType { return renderer.BackendTypeWGPU }

func (b *fakeBackend) ConfigureSurface(width, height int) {
	b.configured = append(b.configured, [2]int{width, height})
}

func (b *fakeBackend) SetPresentMode(renderer.PresentMode) {}

func (b *fakeBackend) DrawFrame(f *renderer.Frame) error {
	if b.err != nil {
		return b.err
	}
	b.frames++
	b.lastFrame = *f
	return nil
}

func (b *fakeBackend) Release() {}

func newTestContext(t *testing.T) (*SceneContext, *fakeBackend) {
	t.Helper()
	b := &fakeBackend{}
	return NewSceneContext(renderer.NewRenderer(b), 800, 600, 1, OrbitDamping), b
}

func names(objs []game_object.GameObject) map[string]int {
	out := map[string]int{}
	for _, o := range objs {
		out[o.Name()]++
	}
	return out
}

func TestAssembleWithoutDecorations(t *testing.T) {
	ctx, _ := newTestContext(t)
	require.NoError(t, Assemble(ctx, Options{}, placement.NewSource(1), nil))

	s := ctx.Scene
	assert.NotZero(t, s.Count())
	got := names(s.Objects())
	for _, name := range []string{"trunk", "ground", "water", "floor"} {
		assert.Equal(t, 1, got[name], name)
	}
	assert.Len(t, s.Group(GroupFoliage), 18)
	assert.Len(t, s.Group(GroupBranches), 4)
	assert.Empty(t, s.Group(GroupCrystals))
	assert.Empty(t, s.Group(GroupFireflies))
	assert.Empty(t, ctx.Fireflies)

	lights := s.Lights()
	require.Len(t, lights, 2)
	assert.Equal(t, light.LightTypeAmbient, lights[0].Type())
	sun := lights[1]
	assert.Equal(t, light.LightTypeDirectional, sun.Type())
	assert.True(t, sun.CastsShadows())
	assert.Equal(t, TrunkPosition, sun.Target())
	assert.Equal(t, SunShadow(), sun.Shadow())
	assert.Equal(t, uint32(2048), sun.Shadow().MapSize)

	require.NotNil(t, s.Fog())
	assert.Equal(t, FogColor, s.Fog().Color)
	assert.Equal(t, float32(5), s.Fog().Near)
	assert.Equal(t, float32(20), s.Fog().Far)
	assert.Equal(t, FogColor, s.Background())
}

func TestAssembleShadowPolicy(t *testing.T) {
	ctx, _ := newTestContext(t)
	require.NoError(t, Assemble(ctx, DefaultOptions(), placement.NewSource(2), nil))

	for _, o := range ctx.Scene.Objects() {
		cast, receive := o.CastShadow(), o.ReceiveShadow()
		switch {
		case o.Name() == "trunk", o.Group() == GroupBranches, o.Group() == GroupFoliage:
			assert.True(t, cast && receive, o.Name())
		case o.Group() == GroupCrystals:
			assert.True(t, cast && !receive, o.Name())
		case o.Group() == GroupFireflies:
			assert.False(t, cast || receive, o.Name())
		case o.Name() == "floor", o.Name() == "water":
			assert.True(t, !cast && receive, o.Name())
		case o.Name() == "ground":
			assert.False(t, cast, "the moss sphere never shades the water")
			assert.True(t, receive, "crystal shadows fall on the moss")
		default:
			t.Errorf("unexpected object %q", o.Name())
		}
	}
	assert.Len(t, ctx.Scene.Group(GroupCrystals), 50)
	assert.Len(t, ctx.Fireflies, 50)
}

func TestAssembleFirefliesAreIndexed(t *testing.T) {
	ctx, _ := newTestContext(t)
	require.NoError(t, Assemble(ctx, Options{Fireflies: 7}, placement.NewSource(3), nil))

	members := ctx.Scene.Group(GroupFireflies)
	require.Len(t, ctx.Fireflies, 7)
	for i, f := range ctx.Fireflies {
		assert.Equal(t, i, f.Index)
		assert.Same(t, members[i], f.Object)
		assert.Equal(t, material.KindBasic, f.Object.Model().Material().Kind())
	}
}

func TestAssembleIsSeedStable(t *testing.T) {
	a, _ := newTestContext(t)
	b, _ := newTestContext(t)
	require.NoError(t, Assemble(a, DefaultOptions(), placement.NewSource(99), nil))
	require.NoError(t, Assemble(b, DefaultOptions(), placement.NewSource(99), nil))

	ca, cb := a.Scene.Group(GroupCrystals), b.Scene.Group(GroupCrystals)
	require.Equal(t, len(ca), len(cb))
	for i := range ca {
		assert.Equal(t, ca[i].Position(), cb[i].Position())
		assert.Equal(t, ca[i].Scale(), cb[i].Scale())
	}
}

func TestAssembleRequestsTiledTextures(t *testing.T) {
	ctx, _ := newTestContext(t)
	l := loader.NewLoader(loader.WithFileSystem(fstest.MapFS{}))
	require.NoError(t, Assemble(ctx, Options{}, placement.NewSource(4), l))

	waitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.Wait(waitCtx))

	for _, p := range []string{MossColorTexture, MossNormalTexture, MossRoughnessTexture} {
		tex := l.Get(p)
		require.NotNil(t, tex, p)
		assert.Equal(t, [2]float32{10, 10}, tex.Repeat())
		s, tt := tex.Wrap()
		assert.Equal(t, loader.WrapRepeat, s)
		assert.Equal(t, loader.WrapRepeat, tt)
		assert.Error(t, tex.Err(), "missing files resolve with an error")
	}
	assert.NotNil(t, l.Get(WaterNormalTexture))
	assert.NotNil(t, l.Get(WaterCausticsTexture))
}

func TestAssembleNeedsCollaborators(t *testing.T) {
	assert.ErrorIs(t, Assemble(nil, Options{}, placement.NewSource(1), nil), ErrMissingCollaborator)
	ctx, _ := newTestContext(t)
	assert.ErrorIs(t, Assemble(ctx, Options{}, nil, nil), ErrMissingCollaborator)
	ctx.Renderer = nil
	assert.ErrorIs(t, Assemble(ctx, Options{}, placement.NewSource(1), nil), ErrMissingCollaborator)
	_, err := NewFrameUpdater(&SceneContext{})
	assert.ErrorIs(t, err, ErrMissingCollaborator)
}

func TestFireflyHeightIgnoresHistory(t *testing.T) {
	mk := func(x float32) []Firefly {
		return []Firefly{{Object: game_object.NewGameObject(game_object.WithPosition(mgl32.Vec3{x, 3, 0})), Index: 4}}
	}
	fresh, aged := mk(0), mk(0)
	for _, t0 := range []float32{0.1, 0.7, 2.3} {
		UpdateFireflies(aged, t0)
	}

	const now = 5.0
	UpdateFireflies(fresh, now)
	UpdateFireflies(aged, now)
	want := math32.Abs(math32.Sin(now*2 + 4))
	assert.Equal(t, want, fresh[0].Object.Position().Y())
	assert.Equal(t, want, aged[0].Object.Position().Y())
	assert.NotEqual(t, fresh[0].Object.Position().X(), aged[0].Object.Position().X(), "x drift accumulates")

	a, b := mk(0), mk(1)
	UpdateFireflies(a, now)
	UpdateFireflies(b, now)
	assert.NotEqual(t, a[0].Object.Position().X(), b[0].Object.Position().X())
	assert.InDelta(t, math32.Sin(now*0.3+4)*0.01, a[0].Object.Position().X(), 1e-7)
	assert.InDelta(t, math32.Cos(now*0.3+4)*0.01, a[0].Object.Position().Z(), 1e-7)
}

func TestFireflyPhaseComesFromIndex(t *testing.T) {
	flies := []Firefly{
		{Object: game_object.NewGameObject(), Index: 0},
		{Object: game_object.NewGameObject(), Index: 1},
		{Index: 2},
	}
	UpdateFireflies(flies, 1)
	assert.Equal(t, math32.Abs(math32.Sin(2)), flies[0].Object.Position().Y())
	assert.Equal(t, math32.Abs(math32.Sin(3)), flies[1].Object.Position().Y())
}

func TestResizeIsIdempotent(t *testing.T) {
	ctx, b := newTestContext(t)
	once := ctx.Viewport.Resize(800, 600, 1)
	configured := len(b.configured)
	aspect := ctx.Camera.Aspect()
	bw, bh := ctx.Renderer.DrawingBufferSize()

	twice := ctx.Viewport.Resize(800, 600, 1)
	assert.Equal(t, once, twice)
	assert.Equal(t, aspect, ctx.Camera.Aspect())
	w, h := ctx.Renderer.DrawingBufferSize()
	assert.Equal(t, [2]int{bw, bh}, [2]int{w, h})
	assert.Len(t, b.configured, configured)
	assert.Equal(t, ViewportState{Width: 800, Height: 600, PixelRatio: 1, Aspect: float32(800) / 600}, ctx.Viewport.State())
}

func TestResizeCapsPixelRatio(t *testing.T) {
	ctx, b := newTestContext(t)
	st := ctx.Viewport.Resize(1000, 500, 3)
	assert.Equal(t, float32(2), st.PixelRatio)
	assert.Equal(t, float32(2), ctx.Camera.Aspect())
	assert.Equal(t, [2]int{2000, 1000}, b.configured[len(b.configured)-1])

	st = ctx.Viewport.Resize(1000, 500, 1.5)
	assert.Equal(t, float32(1.5), st.PixelRatio)

	ctx.Viewport.SetMaxPixelRatio(1)
	assert.Equal(t, float32(1), ctx.Viewport.Resize(1000, 500, 1.5).PixelRatio)
}

func TestResizeToZeroKeepsProjection(t *testing.T) {
	ctx, _ := newTestContext(t)
	before := ctx.Camera.Aspect()
	st := ctx.Viewport.Resize(0, 0, 1)
	assert.Equal(t, float32(1), st.Aspect)
	assert.Equal(t, before, ctx.Camera.Aspect())
}

func TestTickRendersAndAnimates(t *testing.T) {
	ctx, b := newTestContext(t)
	require.NoError(t, Assemble(ctx, Options{Crystals: 5, Fireflies: 3}, placement.NewSource(5), nil))
	u, err := NewFrameUpdater(ctx)
	require.NoError(t, err)

	require.NoError(t, u.Tick(1.25, 1.0/60))
	assert.Equal(t, 1, b.frames)
	for _, f := range ctx.Fireflies {
		assert.Equal(t, math32.Abs(math32.Sin(2.5+float32(f.Index))), f.Object.Position().Y())
	}
	assert.NotNil(t, b.lastFrame.Shadow)
	assert.NotEmpty(t, b.lastFrame.Opaque)
	assert.NotEmpty(t, b.lastFrame.Transparent, "water is translucent")
}

func TestTickWrapsRenderErrors(t *testing.T) {
	ctx, b := newTestContext(t)
	u, err := NewFrameUpdater(ctx)
	require.NoError(t, err)

	b.err = errors.New("surface outdated")
	err = u.Tick(2, 0.016)
	assert.ErrorIs(t, err, b.err)
}

func TestTickAppliesDampedOrbit(t *testing.T) {
	ctx, _ := newTestContext(t)
	u, err := NewFrameUpdater(ctx)
	require.NoError(t, err)

	start := ctx.Camera.Position()
	in := NewInput(ctx.Controller)
	in.BeginDrag(DragRotate, 100, 100)
	in.Move(200, 100)
	in.EndDrag()

	require.NoError(t, u.Tick(0, 1.0/60))
	first := ctx.Camera.Position()
	assert.NotEqual(t, start, first)

	for range 600 {
		require.NoError(t, u.Tick(0, 1.0/60))
	}
	settled := ctx.Camera.Position()
	require.NoError(t, u.Tick(0, 1.0/60))
	assert.InDelta(t, 0, settled.Sub(ctx.Camera.Position()).Len(), 1e-4, "damping settles")
	assert.InDelta(t, start.Len(), settled.Len(), 1e-3, "rotation keeps the radius")
}

func TestInputBindings(t *testing.T) {
	ctx, _ := newTestContext(t)
	in := NewInput(ctx.Controller)

	toggled := 0
	in.OnToggleProfiler = func() { toggled++ }
	assert.True(t, in.KeyDown(80))
	assert.Equal(t, 1, toggled)
	assert.False(t, in.KeyDown(65))

	in.Move(10, 10)
	assert.Equal(t, DragNone, in.Dragging())
	in.BeginDrag(DragPan, 10, 10)
	assert.Equal(t, DragPan, in.Dragging())
	in.Move(40, 10)
	in.EndDrag()
	ctx.Controller.Update(10)
	assert.NotEqual(t, CameraTarget, ctx.Controller.Target())

	assert.True(t, in.KeyDown(82))
	ctx.Controller.Update(1.0 / 60)
	assert.InDelta(t, 0, ctx.Controller.Target().Sub(CameraTarget).Len(), 1e-5)
	assert.InDelta(t, 0, ctx.Controller.Position().Sub(CameraStart).Len(), 1e-4)
}
