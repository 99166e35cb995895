// package common contains plain data types and math helpers shared by the engine packages.
// They are not interface-wrapped, just structs and functions that express commonly used data.
package common

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned by DecodeImage when the content is not a decodable image format.
var ErrUnsupportedImage = errors.New("unsupported image type")

// TextureStagingData holds RGBA8 pixel data waiting for GPU upload.
// Mips holds successively halved levels, Mips[0] being the full-size image.
type TextureStagingData struct {
	// Mips are tightly packed RGBA rows, 4 bytes per pixel, level 0 first.
	Mips [][]byte
	// Width and Height are the dimensions of level 0 in pixels.
	Width, Height uint32
	// MimeType is the sniffed content type of the source bytes.
	MimeType string
}

// Pixels returns the full-resolution level, or nil when nothing is staged.
func (t *TextureStagingData) Pixels() []byte {
	if t == nil || len(t.Mips) == 0 {
		return nil
	}
	return t.Mips[0]
}

// MipSize returns the dimensions of the given mip level.
func (t *TextureStagingData) MipSize(level int) (uint32, uint32) {
	w, h := t.Width>>uint(level), t.Height>>uint(level)
	return max(w, 1), max(h, 1)
}

// DecodeImage sniffs the content type of raw image bytes and decodes them into RGBA.
// PNG, JPEG and WebP are supported.
//
// Parameters:
//   - data: encoded image bytes
//
// Returns:
//   - *image.RGBA: the decoded image, normalised to an origin at (0,0)
//   - string: the sniffed MIME type
//   - error: ErrUnsupportedImage for non-image content, or a wrapped decode error
func DecodeImage(data []byte) (*image.RGBA, string, error) {
	kind, err := filetype.Match(data)
	if err != nil || !filetype.IsImage(data) {
		return nil, kind.MIME.Value, fmt.Errorf("%w: %q", ErrUnsupportedImage, kind.MIME.Value)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, kind.MIME.Value, fmt.Errorf("failed to decode %s: %w", kind.MIME.Value, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba, kind.MIME.Value, nil
}
