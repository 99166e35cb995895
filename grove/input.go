package grove

import (
	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/Carmen-Shannon/mystic-grove/engine/camera"
)

// DragMode is what a pointer drag does to the camera.
type DragMode int

const (
	DragNone DragMode = iota
	DragRotate
	DragPan
)

// Input turns pointer and key events into orbit controller motion. Motion is only
// queued here; the controller applies it with damping on the next frame.
type Input struct {
	controller camera.CameraController
	mode       DragMode
	lastX      float32
	lastY      float32

	// OnToggleProfiler runs when the profiler key is pressed.
	OnToggleProfiler func()
}

// NewInput creates an input binding for the controller.
func NewInput(ctrl camera.CameraController) *Input {
	return &Input{controller: ctrl}
}

// BeginDrag starts a drag at the cursor position. A drag already in progress is replaced.
func (in *Input) BeginDrag(mode DragMode, x, y float32) {
	in.mode = mode
	in.lastX, in.lastY = x, y
}

// EndDrag stops the current drag.
func (in *Input) EndDrag() {
	in.mode = DragNone
}

// Dragging returns the active drag mode.
func (in *Input) Dragging() DragMode {
	return in.mode
}

// Move feeds a cursor position. While dragging, the movement since the last position
// rotates or pans the camera.
func (in *Input) Move(x, y float32) {
	dx, dy := x-in.lastX, y-in.lastY
	in.lastX, in.lastY = x, y
	if in.controller == nil {
		return
	}
	switch in.mode {
	case DragRotate:
		in.controller.Rotate(dx, dy)
	case DragPan:
		in.controller.Pan(dx, dy)
	}
}

// Scroll zooms; positive delta zooms in.
func (in *Input) Scroll(delta float32) {
	if in.controller != nil {
		in.controller.Zoom(delta)
	}
}

// KeyDown handles a pressed key code.
//
// Parameters:
//   - key: a GLFW key code, see the Key constants in common
//
// Returns:
//   - bool: true if the key was bound
func (in *Input) KeyDown(key uint32) bool {
	switch key {
	case common.KeyP:
		if in.OnToggleProfiler != nil {
			in.OnToggleProfiler()
		}
		return true
	}
	if in.controller == nil {
		return false
	}
	switch key {
	case common.KeyR:
		in.controller.Reset()
	case common.KeyLeft:
		in.controller.OrbitLeft()
	case common.KeyRight:
		in.controller.OrbitRight()
	case common.KeyUp:
		in.controller.OrbitUp()
	case common.KeyDown:
		in.controller.OrbitDown()
	default:
		return false
	}
	return true
}
