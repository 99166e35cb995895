package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImagePNG(t *testing.T) {
	data := encodePNG(t, 4, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	img, mime, err := DecodeImage(data)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, []byte{10, 20, 30, 255}, img.Pix[:4])
}

func TestDecodeImageRejectsText(t *testing.T) {
	_, _, err := DecodeImage([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestTextureStagingDataMipSize(t *testing.T) {
	td := &TextureStagingData{Width: 8, Height: 2, Mips: [][]byte{make([]byte, 64)}}
	w, h := td.MipSize(2)
	assert.Equal(t, uint32(2), w)
	assert.Equal(t, uint32(1), h)
	assert.Len(t, td.Pixels(), 64)

	var empty *TextureStagingData
	assert.Nil(t, empty.Pixels())
}
