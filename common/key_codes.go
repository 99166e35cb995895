package common

// Key codes the grove program binds. Values match GLFW key codes, which use
// ASCII for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyP     = 80  // toggle the frame profiler
	KeyR     = 82  // reset the camera to its start view
	KeyEsc   = 256 // close the window (handled by the window itself)
	KeyRight = 262
	KeyLeft  = 263
	KeyDown  = 264
	KeyUp    = 265
)
