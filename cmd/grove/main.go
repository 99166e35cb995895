// Command grove opens a window and renders the mystic grove: a procedurally placed
// tree with crystals, fireflies, water and fog, viewed through a damped orbit camera.
//
// Controls: left-drag orbits, right-drag pans, the wheel zooms, arrow keys nudge the
// orbit, R resets the view, P toggles the frame profiler and Escape quits.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/mystic-grove/config"
	"github.com/Carmen-Shannon/mystic-grove/engine"
	"github.com/Carmen-Shannon/mystic-grove/engine/loader"
	"github.com/Carmen-Shannon/mystic-grove/engine/profiler"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer"
	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/wgpu_renderer"
	"github.com/Carmen-Shannon/mystic-grove/engine/window"
	"github.com/Carmen-Shannon/mystic-grove/grove"
	"github.com/Carmen-Shannon/mystic-grove/grove/placement"
	"github.com/go-gl/mathgl/mgl32"
)

// introDistance is how far out, as a multiple of the resting radius, the opening fly-in starts.
const introDistance = 2.5

func main() {
	configPath := flag.String("config", "", "TOML config file (default "+config.DefaultPath+")")
	seed := flag.Uint64("seed", 0, "placement seed; 0 seeds from the clock (overrides scene.seed)")
	profile := flag.Bool("profile", false, "log frame statistics once per second")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "grove:", err)
		os.Exit(2)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Scene.Seed = *seed
		case "profile":
			cfg.Profile = *profile
		}
	})

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("grove stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	// ── Window + Renderer ───────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	defer win.Close()

	presentMode := renderer.PresentModeVSync
	if !cfg.Render.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	r := renderer.NewRenderer(
		wgpu_renderer.NewBackend(win.SurfaceDescriptor(),
			wgpu_renderer.WithMSAA(renderer.MSAASampleCount(cfg.Render.MSAA)),
			wgpu_renderer.WithPresentMode(presentMode),
			wgpu_renderer.WithForceSoftwareRenderer(cfg.Render.SoftwareRenderer),
		),
		renderer.WithShadows(cfg.Render.Shadows),
	)
	defer r.Release()

	// ── Scene ───────────────────────────────────────────────────────────
	ctx := grove.NewSceneContext(r, win.Width(), win.Height(), win.PixelRatio(), cfg.Camera.Damping)
	ctx.Camera.SetFov(mgl32.DegToRad(cfg.Camera.Fov))
	ctx.Viewport.SetMaxPixelRatio(cfg.Render.MaxPixelRatio)
	ctx.Viewport.Resize(win.Width(), win.Height(), win.PixelRatio())

	root, err := cfg.TextureRoot()
	if err != nil {
		return fmt.Errorf("texture directory: %w", err)
	}
	textures := loader.NewLoader(loader.WithRoot(root))

	src := placement.NewSource(cfg.Scene.Seed)
	opts := grove.Options{Crystals: cfg.Scene.Crystals, Fireflies: cfg.Scene.Fireflies}
	if err := grove.Assemble(ctx, opts, src, textures); err != nil {
		return fmt.Errorf("failed to assemble the grove: %w", err)
	}
	logger.Info("grove assembled",
		slog.Int("objects", ctx.Scene.Count()),
		slog.Int("crystals", opts.Crystals),
		slog.Int("fireflies", opts.Fireflies),
		slog.Uint64("seed", cfg.Scene.Seed),
		slog.String("textures", root),
	)

	if cfg.Camera.IntroSeconds > 0 {
		ctx.Controller.FlyIn(ctx.Controller.Radius()*introDistance, cfg.Camera.IntroSeconds)
	}

	updater, err := grove.NewFrameUpdater(ctx)
	if err != nil {
		return err
	}

	// ── Engine ──────────────────────────────────────────────────────────
	prof := profiler.NewProfiler(profiler.WithLogger(logger), profiler.WithEnabled(cfg.Profile))
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithLogger(logger),
		engine.WithProfiler(prof),
		engine.WithFrameLimit(cfg.Render.FrameLimit),
		engine.WithTickCallback(updater.Tick),
	)

	// ── Input ───────────────────────────────────────────────────────────
	input := grove.NewInput(ctx.Controller)
	input.OnToggleProfiler = func() {
		logger.Info("profiler toggled", slog.Bool("enabled", prof.Toggle()))
	}
	win.SetResizeCallback(func(width, height int, pixelRatio float32) {
		st := ctx.Viewport.Resize(width, height, pixelRatio)
		logger.Debug("viewport resized", slog.Int("width", st.Width), slog.Int("height", st.Height),
			slog.Float64("pixel_ratio", float64(st.PixelRatio)))
	})
	win.SetMouseDownCallback(func(button window.MouseButton, x, y float32) {
		switch button {
		case window.MouseButtonLeft:
			input.BeginDrag(grove.DragRotate, x, y)
		case window.MouseButtonRight, window.MouseButtonMiddle:
			input.BeginDrag(grove.DragPan, x, y)
		}
	})
	win.SetMouseUpCallback(func(window.MouseButton, float32, float32) {
		input.EndDrag()
	})
	win.SetMouseMoveCallback(input.Move)
	win.SetScrollCallback(input.Scroll)
	win.SetKeyDownCallback(func(key uint32) {
		input.KeyDown(key)
	})

	eng.Run()
	return nil
}
