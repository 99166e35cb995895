// Package grove builds the mystic tree scene and keeps it moving: it assembles the
// objects, animates the fireflies each frame and keeps the viewport in step with the
// window.
package grove

import (
	"errors"

	"github.com/Carmen-Shannon/mystic-grove/engine/camera"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer"
	"github.com/Carmen-Shannon/mystic-grove/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrMissingCollaborator is returned when a SceneContext lacks a collaborator an
// operation needs.
var ErrMissingCollaborator = errors.New("grove: missing scene collaborator")

// Scene group names.
const (
	GroupFoliage   = "foliage"
	GroupCrystals  = "crystals"
	GroupFireflies = "fireflies"
	GroupBranches  = "branches"
)

// Camera defaults.
var (
	CameraStart  = mgl32.Vec3{10, 5, 10}
	CameraTarget = mgl32.Vec3{0, 0, 0}
)

const (
	// CameraFov is the vertical field of view in degrees.
	CameraFov  = 75
	CameraNear = 0.1
	CameraFar  = 100
	// Zoom limits of the orbit radius.
	MinOrbitRadius = 2
	MaxOrbitRadius = 40
	// OrbitDamping is the share of queued orbit motion applied per 60 Hz frame.
	OrbitDamping = 0.05
)

// SceneContext carries everything one grove needs. Nothing in this package keeps
// global state, so several contexts can live side by side.
type SceneContext struct {
	Scene      scene.Scene
	Camera     camera.Camera
	Controller camera.CameraController
	Renderer   renderer.Renderer
	Viewport   *ViewportController
	// Fireflies is filled by Assemble, indexed 0..n-1.
	Fireflies []Firefly
}

// NewSceneContext creates a context with an empty scene and a perspective camera driven
// by a damped orbit controller starting at CameraStart.
//
// Parameters:
//   - r: the renderer that draws the scene
//   - width, height: the initial logical viewport size
//   - pixelRatio: the display's device pixel ratio
//   - damping: orbit damping factor; 0 disables damping
//
// Returns:
//   - *SceneContext: the context, with the viewport already applied
func NewSceneContext(r renderer.Renderer, width, height int, pixelRatio, damping float32) *SceneContext {
	ctrl := camera.NewCameraController(
		camera.WithTarget(CameraTarget),
		camera.WithPosition(CameraStart),
		camera.WithRadiusBounds(MinOrbitRadius, MaxOrbitRadius),
		camera.WithDamping(damping),
	)
	cam := camera.NewCamera(
		camera.WithFov(mgl32.DegToRad(CameraFov)),
		camera.WithClipRange(CameraNear, CameraFar),
		camera.WithController(ctrl),
	)
	ctx := &SceneContext{
		Scene:      scene.NewScene(scene.WithName("mystic grove")),
		Camera:     cam,
		Controller: ctrl,
		Renderer:   r,
	}
	ctx.Viewport = NewViewportController(cam, r)
	ctx.Viewport.Resize(width, height, pixelRatio)
	return ctx
}

func (c *SceneContext) check() error {
	if c == nil || c.Scene == nil || c.Camera == nil || c.Renderer == nil {
		return ErrMissingCollaborator
	}
	return nil
}
