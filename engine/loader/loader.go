package loader

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/mystic-grove/common"
	"golang.org/x/image/draw"
)

// DefaultMaxTextureSize is the largest edge length, in pixels, a decoded texture is
// allowed to keep. Larger images are downscaled before mip generation.
const DefaultMaxTextureSize = 4096

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	fsys    fs.FS
	workers int
	pool    worker.DynamicWorkerPool
	nextID  int
	pending sync.WaitGroup

	maxSize      int
	generateMips bool

	cache map[string]*Texture
}

// Loader loads image files into Texture handles without blocking the caller.
//
// Each path is read and decoded once on a worker pool; repeated loads of the same
// path share a handle. Decoding failures are logged and kept on the handle, so
// callers never have to wait on or check a load before using the handle.
type Loader interface {
	// Load returns the handle for path, scheduling a decode on first use.
	// Options are applied to the (possibly shared) handle on every call.
	//
	// Parameters:
	//   - p: slash-separated path relative to the loader's root
	//   - options: sampling options applied to the handle
	//
	// Returns:
	//   - *Texture: the texture handle, unresolved until decoding finishes
	Load(p string, options ...TextureOption) *Texture

	// Get returns the cached handle for path, or nil if it was never loaded.
	//
	// Parameters:
	//   - p: the path passed to Load
	//
	// Returns:
	//   - *Texture: the cached handle or nil
	Get(p string) *Texture

	// Textures returns a copy of the handle cache keyed by cleaned path.
	//
	// Returns:
	//   - map[string]*Texture: the cached handles
	Textures() map[string]*Texture

	// Wait blocks until every scheduled decode has finished or ctx is done.
	//
	// Parameters:
	//   - ctx: context bounding the wait
	//
	// Returns:
	//   - error: ctx.Err() if the context ended first
	Wait(ctx context.Context) error
}

var _ Loader = &loader{}

// NewLoader creates a Loader reading from the current working directory unless a
// root or file system is supplied.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the new loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		fsys:         os.DirFS("."),
		workers:      2,
		maxSize:      DefaultMaxTextureSize,
		generateMips: true,
		cache:        make(map[string]*Texture),
	}
	for _, opt := range options {
		opt(l)
	}
	// Queue size of 64 comfortably covers a scene's worth of textures.
	l.pool = worker.NewDynamicWorkerPool(max(l.workers, 1), 64, 1*time.Second)
	return l
}

func (l *loader) Load(p string, options ...TextureOption) *Texture {
	key := path.Clean(strings.TrimPrefix(p, "/"))

	l.mu.Lock()
	tex, ok := l.cache[key]
	if !ok {
		tex = newTexture(key)
		l.cache[key] = tex
	}
	for _, opt := range options {
		tex.mu.Lock()
		opt(tex)
		tex.mu.Unlock()
	}
	if ok {
		l.mu.Unlock()
		return tex
	}
	id := l.nextID
	l.nextID++
	l.mu.Unlock()

	l.pending.Add(1)
	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer l.pending.Done()
			data, err := l.decode(key)
			if err != nil {
				slog.Warn("texture load failed", "path", key, "err", err)
			} else {
				slog.Debug("texture decoded", "path", key, "type", data.MimeType,
					"width", data.Width, "height", data.Height, "mips", len(data.Mips))
			}
			tex.resolve(data, err)
			return nil, nil
		},
	})
	return tex
}

func (l *loader) Get(p string) *Texture {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[path.Clean(strings.TrimPrefix(p, "/"))]
}

func (l *loader) Textures() map[string]*Texture {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cp := make(map[string]*Texture, len(l.cache))
	for k, v := range l.cache {
		cp[k] = v
	}
	return cp
}

func (l *loader) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// decode reads and decodes one file into staged RGBA mips.
func (l *loader) decode(p string) (*common.TextureStagingData, error) {
	raw, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("failed to read texture %s: %w", p, err)
	}

	img, mime, err := common.DecodeImage(raw)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", p, err)
	}

	img = fitWithin(img, l.maxSize)
	data := &common.TextureStagingData{
		Width:    uint32(img.Bounds().Dx()),
		Height:   uint32(img.Bounds().Dy()),
		MimeType: mime,
		Mips:     [][]byte{img.Pix},
	}
	if l.generateMips {
		for level := img; level.Bounds().Dx() > 1 || level.Bounds().Dy() > 1; {
			level = halve(level)
			data.Mips = append(data.Mips, level.Pix)
		}
	}
	return data, nil
}

// fitWithin downscales img so neither edge exceeds limit, preserving aspect ratio.
func fitWithin(img *image.RGBA, limit int) *image.RGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if limit <= 0 || (w <= limit && h <= limit) {
		return img
	}
	if w >= h {
		h = max(h*limit/w, 1)
		w = limit
	} else {
		w = max(w*limit/h, 1)
		h = limit
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// halve produces the next mip level with bilinear filtering.
func halve(img *image.RGBA) *image.RGBA {
	w := max(img.Bounds().Dx()/2, 1)
	h := max(img.Bounds().Dy()/2, 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
