package loader

import (
	"io/fs"
	"os"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRoot reads textures from the given directory on disk.
//
// Parameters:
//   - dir: the directory texture paths are relative to
//
// Returns:
//   - LoaderBuilderOption: a function that applies the root option to a loader
func WithRoot(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.fsys = os.DirFS(dir)
	}
}

// WithFileSystem reads textures from an arbitrary fs.FS, such as an embed.FS or fstest.MapFS.
//
// Parameters:
//   - fsys: the file system to read from
//
// Returns:
//   - LoaderBuilderOption: a function that applies the file system option to a loader
func WithFileSystem(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		l.fsys = fsys
	}
}

// WithWorkers sets the maximum number of concurrent decode workers.
//
// Parameters:
//   - n: worker count (values below 1 are treated as 1)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = n
	}
}

// WithMaxTextureSize caps the edge length of decoded textures. Pass 0 to disable.
//
// Parameters:
//   - size: maximum width or height in pixels
//
// Returns:
//   - LoaderBuilderOption: a function that applies the size cap to a loader
func WithMaxTextureSize(size int) LoaderBuilderOption {
	return func(l *loader) {
		l.maxSize = size
	}
}

// WithMipmaps enables or disables mip chain generation.
//
// Parameters:
//   - enabled: true to generate mips down to 1x1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the mip option to a loader
func WithMipmaps(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.generateMips = enabled
	}
}
