package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "grove.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 50, cfg.Scene.Crystals)
	assert.Equal(t, 50, cfg.Scene.Fireflies)
	assert.Equal(t, float32(2), cfg.Render.MaxPixelRatio)
	assert.Equal(t, float32(75), cfg.Camera.Fov)
	assert.Equal(t, float32(0.05), cfg.Camera.Damping)
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	p := writeConfig(t, `
profile = true
log_level = "debug"

[window]
width = 800

[scene]
seed = 42
fireflies = 0

[render]
msaa = 1
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.True(t, cfg.Profile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.Equal(t, uint64(42), cfg.Scene.Seed)
	assert.Equal(t, 0, cfg.Scene.Fireflies)
	assert.Equal(t, 50, cfg.Scene.Crystals)
	assert.Equal(t, 1, cfg.Render.MSAA)
	assert.True(t, cfg.Render.VSync)
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[scene]\ntrees = 3\n", "unknown config keys"},
		{"syntax", "[window\nwidth = 1\n", "invalid config"},
		{"msaa", "[render]\nmsaa = 2\n", "render.msaa"},
		{"damping", "[camera]\ndamping = 1.5\n", "camera.damping"},
		{"counts", "[scene]\ncrystals = -1\n", "scene counts"},
		{"level", "log_level = \"loud\"\n", "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	require.NoError(t, os.WriteFile(filepath.Join(home, "grove.toml"), []byte("[scene]\ncrystals = 7\n"), 0o644))

	cfg, err := Load("~/grove.toml")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Scene.Crystals)
}

func TestEncodeRoundTripsDefaults(t *testing.T) {
	data, err := Default().Encode()
	require.NoError(t, err)

	cfg := Config{}
	require.NoError(t, cfg.Decode(data))
	assert.Equal(t, Default(), cfg)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
