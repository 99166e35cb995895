// Package config loads the grove program settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "~/.config/mystic-grove/grove.toml"

// Config is the full program configuration.
type Config struct {
	Window Window `toml:"window"`
	Render Render `toml:"render"`
	Scene  Scene  `toml:"scene"`
	Camera Camera `toml:"camera"`

	// Profile logs frame statistics once per second.
	Profile bool `toml:"profile"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level"`
}

// Window holds the initial window settings, in logical pixels.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Render holds renderer settings.
type Render struct {
	// MSAA is the sample count, 1 or 4.
	MSAA          int     `toml:"msaa"`
	VSync         bool    `toml:"vsync"`
	FrameLimit    float64 `toml:"frame_limit"`
	MaxPixelRatio float32 `toml:"max_pixel_ratio"`
	Shadows       bool    `toml:"shadows"`
	// SoftwareRenderer forces a CPU adapter.
	SoftwareRenderer bool `toml:"software_renderer"`
}

// Scene holds the grove's generation settings.
type Scene struct {
	// Seed for the placement source; 0 seeds from the clock.
	Seed       uint64 `toml:"seed"`
	Crystals   int    `toml:"crystals"`
	Fireflies  int    `toml:"fireflies"`
	TextureDir string `toml:"texture_dir"`
}

// Camera holds camera settings.
type Camera struct {
	// Fov is the vertical field of view in degrees.
	Fov float32 `toml:"fov"`
	// IntroSeconds is the length of the opening fly-in; 0 disables it.
	IntroSeconds float32 `toml:"intro_seconds"`
	Damping      float32 `toml:"damping"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window:   Window{Title: "Mystic Grove", Width: 1280, Height: 720},
		Render:   Render{MSAA: 4, VSync: true, MaxPixelRatio: 2, Shadows: true},
		Scene:    Scene{Crystals: 50, Fireflies: 50, TextureDir: "textures"},
		Camera:   Camera{Fov: 75, IntroSeconds: 2.5, Damping: 0.05},
		LogLevel: "info",
	}
}

// Load reads the file at path over the defaults. A leading ~ is expanded. An empty
// path reads DefaultPath, and a missing DefaultPath is not an error.
//
// Parameters:
//   - path: the TOML file, or "" for DefaultPath
//
// Returns:
//   - Config: the merged configuration
//   - error: an error if the file could not be read, parsed or validated
func Load(path string) (Config, error) {
	cfg := Default()
	optional := path == ""
	if optional {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.Decode(data); err != nil {
		return cfg, fmt.Errorf("%s: %w", expanded, err)
	}
	return cfg, nil
}

// Decode parses TOML over the receiver's current values and validates the result.
// Unknown keys are rejected.
//
// Parameters:
//   - data: TOML document
//
// Returns:
//   - error: a decode or validation error
func (c *Config) Decode(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("unknown config keys: %s", strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return fmt.Errorf("invalid config at line %d, column %d: %w", row, col, err)
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return c.Validate()
}

// Encode returns the configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate checks ranges and fills in zero values that have a meaningful default.
//
// Returns:
//   - error: the first invalid setting
func (c *Config) Validate() error {
	switch {
	case c.Window.Width < 0 || c.Window.Height < 0:
		return fmt.Errorf("window size %dx%d must not be negative", c.Window.Width, c.Window.Height)
	case c.Render.MSAA != 1 && c.Render.MSAA != 4:
		return fmt.Errorf("render.msaa must be 1 or 4, got %d", c.Render.MSAA)
	case c.Render.FrameLimit < 0:
		return fmt.Errorf("render.frame_limit must not be negative, got %g", c.Render.FrameLimit)
	case c.Scene.Crystals < 0 || c.Scene.Fireflies < 0:
		return errors.New("scene counts must not be negative")
	case c.Camera.Fov <= 0 || c.Camera.Fov >= 180:
		return fmt.Errorf("camera.fov must be in (0, 180), got %g", c.Camera.Fov)
	case c.Camera.Damping < 0 || c.Camera.Damping >= 1:
		return fmt.Errorf("camera.damping must be in [0, 1), got %g", c.Camera.Damping)
	case c.Camera.IntroSeconds < 0:
		return errors.New("camera.intro_seconds must not be negative")
	}
	if c.Render.MaxPixelRatio <= 0 {
		c.Render.MaxPixelRatio = 2
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log_level value to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", s, err)
	}
	return level, nil
}

// TextureRoot returns Scene.TextureDir with a leading ~ expanded.
func (c Config) TextureRoot() (string, error) {
	return homedir.Expand(c.Scene.TextureDir)
}
