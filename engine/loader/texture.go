package loader

import (
	"sync"

	"github.com/Carmen-Shannon/mystic-grove/common"
)

// Wrap selects how texture coordinates outside [0, 1] are resolved along one axis.
type Wrap int

const (
	// WrapClampToEdge clamps coordinates to the edge texels. This is the default.
	WrapClampToEdge Wrap = iota

	// WrapRepeat tiles the texture.
	WrapRepeat

	// WrapMirroredRepeat tiles the texture, mirroring every other tile.
	WrapMirroredRepeat
)

// Texture is an asynchronously resolved image handle.
//
// The handle is returned by Loader.Load before any decoding has happened. Sampling
// parameters (repeat, wrap) can be set at any time; pixel data becomes available
// once Ready is closed. A handle that failed to resolve keeps its error and never
// gains pixel data.
type Texture struct {
	mu sync.Mutex

	path   string
	repeat [2]float32
	wrapS  Wrap
	wrapT  Wrap

	data *common.TextureStagingData
	err  error

	ready    chan struct{}
	resolved sync.Once
}

// TextureOption configures sampling parameters on a Texture handle.
type TextureOption func(*Texture)

// WithRepeat sets how many times the texture tiles across the surface's UV range.
//
// Parameters:
//   - u, v: repeat counts along each axis
//
// Returns:
//   - TextureOption: option function to apply
func WithRepeat(u, v float32) TextureOption {
	return func(t *Texture) {
		t.repeat = [2]float32{u, v}
	}
}

// WithWrap sets the wrap mode along each texture axis.
//
// Parameters:
//   - s: horizontal wrap mode
//   - t: vertical wrap mode
//
// Returns:
//   - TextureOption: option function to apply
func WithWrap(s, t Wrap) TextureOption {
	return func(tex *Texture) {
		tex.wrapS = s
		tex.wrapT = t
	}
}

func newTexture(path string) *Texture {
	return &Texture{
		path:   path,
		repeat: [2]float32{1, 1},
		ready:  make(chan struct{}),
	}
}

// NewTextureFromData wraps already decoded pixels in a resolved handle.
//
// Parameters:
//   - name: identifier used in place of a file path
//   - data: the staged pixel data
//   - options: sampling options
//
// Returns:
//   - *Texture: a resolved texture handle
func NewTextureFromData(name string, data *common.TextureStagingData, options ...TextureOption) *Texture {
	t := newTexture(name)
	for _, opt := range options {
		opt(t)
	}
	t.resolve(data, nil)
	return t
}

// Path returns the path the handle was loaded from.
func (t *Texture) Path() string {
	return t.path
}

// Repeat returns the UV repeat counts.
func (t *Texture) Repeat() [2]float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.repeat
}

// SetRepeat sets the UV repeat counts.
func (t *Texture) SetRepeat(u, v float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.repeat = [2]float32{u, v}
}

// Wrap returns the wrap modes along the horizontal and vertical axes.
func (t *Texture) Wrap() (s, tt Wrap) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wrapS, t.wrapT
}

// SetWrap sets the wrap modes along the horizontal and vertical axes.
func (t *Texture) SetWrap(s, tt Wrap) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.wrapS, t.wrapT = s, tt
}

// Ready returns a channel that is closed once the handle has resolved, successfully or not.
func (t *Texture) Ready() <-chan struct{} {
	return t.ready
}

// Data returns the staged pixels, or nil while unresolved or after a failure.
func (t *Texture) Data() *common.TextureStagingData {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data
}

// Err returns the load error, if any.
func (t *Texture) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// resolve publishes the decode result. Only the first call has any effect.
func (t *Texture) resolve(data *common.TextureStagingData, err error) {
	t.resolved.Do(func() {
		t.mu.Lock()
		t.data = data
		t.err = err
		t.mu.Unlock()
		close(t.ready)
	})
}
