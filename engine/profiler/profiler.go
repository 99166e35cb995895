package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Sample is one interval of frame and memory statistics.
type Sample struct {
	FPS float64
	// FrameTime is the mean frame duration over the interval.
	FrameTime time.Duration
	HeapMB    float64
	// AllocRateMB is heap allocation churn in MB per second.
	AllocRateMB float64
	NumGC       uint32
	// MaxPause is the longest GC pause observed during the interval.
	MaxPause time.Duration
	SysMB    float64
}

// Profiler tracks frame rate and memory statistics and logs them at a fixed interval.
type Profiler struct {
	logger   *slog.Logger
	interval time.Duration
	clock    func() time.Time

	enabled    bool
	frameCount int
	lastTime   time.Time

	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Sample
}

// ProfilerBuilderOption is a functional option applied to a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithLogger sets the logger samples are written to. Defaults to slog.Default().
//
// Parameters:
//   - logger: the destination logger
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithInterval sets how often a sample is taken. Non-positive values keep the 1 second default.
//
// Parameters:
//   - interval: time between samples
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithClock replaces the time source.
func WithClock(clock func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithEnabled sets whether Tick logs samples. Profilers start disabled.
func WithEnabled(enabled bool) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.enabled = enabled
	}
}

// NewProfiler creates a new Profiler sampling once per second.
//
// Parameters:
//   - options: variadic list of ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		logger:   slog.Default(),
		interval: time.Second,
		clock:    time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.clock()
	return p
}

// Enabled reports whether samples are being logged.
func (p *Profiler) Enabled() bool {
	return p.enabled
}

// SetEnabled turns logging on or off. Enabling restarts the current interval.
//
// Parameters:
//   - enabled: true to log samples
func (p *Profiler) SetEnabled(enabled bool) {
	if enabled && !p.enabled {
		p.frameCount = 0
		p.lastTime = p.clock()
	}
	p.enabled = enabled
}

// Toggle flips the enabled state.
//
// Returns:
//   - bool: the new state
func (p *Profiler) Toggle() bool {
	p.SetEnabled(!p.enabled)
	return p.enabled
}

// Last returns the most recent sample.
func (p *Profiler) Last() Sample {
	return p.last
}

// Tick should be called once per frame. When enabled and the interval has elapsed
// it takes a sample and logs it at Info.
//
// Returns:
//   - bool: true if a sample was logged this tick
func (p *Profiler) Tick() bool {
	if !p.enabled {
		return false
	}
	p.frameCount++
	now := p.clock()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.interval {
		return false
	}

	p.last = p.sample(elapsed)
	p.logger.Info("frame stats",
		slog.Float64("fps", p.last.FPS),
		slog.Duration("frame_time", p.last.FrameTime),
		slog.Float64("heap_mb", p.last.HeapMB),
		slog.Float64("alloc_mb_per_s", p.last.AllocRateMB),
		slog.Uint64("gc", uint64(p.last.NumGC)),
		slog.Duration("gc_max_pause", p.last.MaxPause),
		slog.Float64("sys_mb", p.last.SysMB),
	)

	p.frameCount = 0
	p.lastTime = now
	return true
}

func (p *Profiler) sample(elapsed time.Duration) Sample {
	const mb = 1024 * 1024
	runtime.ReadMemStats(&p.memStats)

	s := Sample{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		FrameTime:   elapsed / time.Duration(p.frameCount),
		HeapMB:      float64(p.memStats.Alloc) / mb,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / mb / elapsed.Seconds(),
		NumGC:       p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / mb,
	}

	// PauseNs is a ring of the last 256 pauses.
	start := p.lastGCCount
	if s.NumGC-start > 256 {
		start = s.NumGC - 256
	}
	for i := start; i < s.NumGC; i++ {
		s.MaxPause = max(s.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
	}

	p.lastGCCount = s.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return s
}
