package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickLogsOncePerInterval(t *testing.T) {
	now := time.Unix(0, 0)
	var buf bytes.Buffer
	p := NewProfiler(
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithClock(func() time.Time { return now }),
		WithEnabled(true),
	)

	for range 59 {
		now = now.Add(time.Second / 60)
		assert.False(t, p.Tick())
	}
	now = now.Add(time.Second / 60)
	require.True(t, p.Tick())

	assert.InDelta(t, 60, p.Last().FPS, 0.5)
	assert.Contains(t, buf.String(), "frame stats")
	assert.Contains(t, buf.String(), "fps=")
}

func TestDisabledProfilerStaysQuiet(t *testing.T) {
	now := time.Unix(0, 0)
	var buf bytes.Buffer
	p := NewProfiler(
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithClock(func() time.Time { return now }),
	)

	now = now.Add(5 * time.Second)
	assert.False(t, p.Tick())
	assert.Empty(t, buf.String())

	assert.True(t, p.Toggle())
	now = now.Add(500 * time.Millisecond)
	assert.False(t, p.Tick(), "enabling restarts the interval")
	now = now.Add(600 * time.Millisecond)
	assert.True(t, p.Tick())
	assert.False(t, p.Toggle())
}
