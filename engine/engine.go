package engine

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/mystic-grove/engine/profiler"
	"github.com/Carmen-Shannon/mystic-grove/engine/window"
)

// TickFunc advances and draws one frame.
//
// Parameters:
//   - elapsed: seconds since Run started
//   - dt: seconds since the previous frame
//
// Returns:
//   - error: a frame error; the loop logs it and keeps running
//
// A panic inside the callback is not recovered. It unwinds through Run to the caller.
type TickFunc func(elapsed, dt float32) error

// engine implements the Engine interface.
// Everything runs on the thread that called Run, inside the window's message loop.
type engine struct {
	window   window.Window
	profiler *profiler.Profiler
	logger   *slog.Logger
	clock    func() time.Time

	tick       TickFunc
	frameLimit time.Duration // minimum frame duration; 0 = uncapped

	start, last time.Time
	frames      uint64
	lastErr     string
	quit        bool
}

// Engine drives the frame loop: it polls the window, calls the tick function once per
// frame with the elapsed and delta time, and feeds the profiler.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Profiler returns the frame profiler.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler, never nil
	Profiler() *profiler.Profiler

	// SetTickCallback registers the function called once per frame.
	//
	// Parameters:
	//   - callback: the frame function
	SetTickCallback(callback TickFunc)

	// SetFrameLimit caps the frame rate. Pass 0 to uncap (default).
	//
	// Parameters:
	//   - fps: maximum frames per second
	SetFrameLimit(fps float64)

	// Frames returns how many frames have been ticked.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64

	// Run blocks in the window's message loop until the window closes or Quit is called.
	// Must be called from the thread that created the window.
	Run()

	// Quit stops the loop after the current frame. Safe to call from callbacks.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Panics if no window was supplied.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.window == nil {
		panic("engine: a window is required")
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) SetTickCallback(callback TickFunc) {
	e.tick = callback
}

func (e *engine) SetFrameLimit(fps float64) {
	e.frameLimit = frameDuration(fps)
}

func (e *engine) Frames() uint64 {
	return e.frames
}

func (e *engine) Run() {
	e.start = e.clock()
	e.last = e.start
	e.quit = false
	e.window.SetUpdateCallback(e.step)
	e.window.ProcessMessages()
	e.window.SetUpdateCallback(nil)
	e.logger.Info("frame loop stopped", slog.Uint64("frames", e.frames))
}

func (e *engine) Quit() {
	e.quit = true
	e.window.RequestClose()
}

// step runs one frame: tick, profile, then sleep off any remaining frame budget.
func (e *engine) step() {
	if e.quit {
		return
	}
	now := e.clock()
	elapsed := float32(now.Sub(e.start).Seconds())
	dt := float32(now.Sub(e.last).Seconds())
	e.last = now
	e.frames++

	if e.tick != nil {
		e.report(e.tick(elapsed, dt))
	}
	e.profiler.Tick()

	if e.frameLimit > 0 {
		if remaining := e.frameLimit - e.clock().Sub(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// report logs frame errors, collapsing consecutive repeats of the same message.
func (e *engine) report(err error) {
	if err == nil {
		if e.lastErr != "" {
			e.logger.Info("frames recovered")
			e.lastErr = ""
		}
		return
	}
	if msg := err.Error(); msg != e.lastErr {
		e.logger.Error("frame failed", slog.Any("err", err), slog.Uint64("frame", e.frames))
		e.lastErr = msg
	}
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
