package grove

import (
	"fmt"
)

// FrameUpdater advances and draws one grove frame per tick.
type FrameUpdater struct {
	ctx *SceneContext
}

// NewFrameUpdater creates an updater for the context.
//
// Parameters:
//   - ctx: the assembled scene context
//
// Returns:
//   - *FrameUpdater: the updater
//   - error: ErrMissingCollaborator if the context is incomplete
func NewFrameUpdater(ctx *SceneContext) (*FrameUpdater, error) {
	if err := ctx.check(); err != nil {
		return nil, err
	}
	return &FrameUpdater{ctx: ctx}, nil
}

// Tick moves the fireflies, advances the orbit controller's damping, then renders.
//
// Parameters:
//   - elapsed: seconds since the session started
//   - dt: seconds since the previous tick
//
// Returns:
//   - error: the wrapped render error, if any
func (u *FrameUpdater) Tick(elapsed, dt float32) error {
	UpdateFireflies(u.ctx.Fireflies, elapsed)
	if u.ctx.Controller != nil {
		u.ctx.Controller.Update(dt)
	}
	u.ctx.Camera.Update()
	if err := u.ctx.Renderer.Render(u.ctx.Scene, u.ctx.Camera); err != nil {
		return fmt.Errorf("grove frame at %.2fs: %w", elapsed, err)
	}
	return nil
}
