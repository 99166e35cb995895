package loader

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func waitFor(t *testing.T, l Loader) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.Wait(ctx))
}

func TestLoadResolvesPNG(t *testing.T) {
	fsys := fstest.MapFS{
		"moss/color.png": {Data: pngBytes(t, 8, 4)},
	}
	l := NewLoader(WithFileSystem(fsys))

	tex := l.Load("/moss/color.png", WithRepeat(10, 10), WithWrap(WrapRepeat, WrapRepeat))
	waitFor(t, l)

	select {
	case <-tex.Ready():
	default:
		t.Fatal("texture not ready after Wait")
	}
	require.NoError(t, tex.Err())

	data := tex.Data()
	require.NotNil(t, data)
	assert.Equal(t, uint32(8), data.Width)
	assert.Equal(t, uint32(4), data.Height)
	assert.Equal(t, "image/png", data.MimeType)
	// 8x4, 4x2, 2x1, 1x1
	assert.Len(t, data.Mips, 4)
	assert.Len(t, data.Mips[3], 4)

	assert.Equal(t, [2]float32{10, 10}, tex.Repeat())
	s, tt := tex.Wrap()
	assert.Equal(t, WrapRepeat, s)
	assert.Equal(t, WrapRepeat, tt)
}

func TestLoadSharesHandles(t *testing.T) {
	fsys := fstest.MapFS{"a.png": {Data: pngBytes(t, 2, 2)}}
	l := NewLoader(WithFileSystem(fsys), WithMipmaps(false))

	first := l.Load("a.png")
	second := l.Load("./a.png")
	waitFor(t, l)

	assert.Same(t, first, second)
	assert.Same(t, first, l.Get("a.png"))
	assert.Len(t, l.Textures(), 1)
	assert.Len(t, first.Data().Mips, 1)
}

func TestLoadFailures(t *testing.T) {
	fsys := fstest.MapFS{"notes.txt": {Data: []byte("hello there, not an image")}}
	l := NewLoader(WithFileSystem(fsys))

	missing := l.Load("water/normal.jpg")
	text := l.Load("notes.txt")
	waitFor(t, l)

	assert.ErrorIs(t, missing.Err(), fs.ErrNotExist)
	assert.Nil(t, missing.Data())
	assert.ErrorIs(t, text.Err(), common.ErrUnsupportedImage)
	assert.Nil(t, text.Data())
}

func TestLoadDownscalesLargeImages(t *testing.T) {
	fsys := fstest.MapFS{"big.png": {Data: pngBytes(t, 64, 16)}}
	l := NewLoader(WithFileSystem(fsys), WithMaxTextureSize(32), WithWorkers(1))

	tex := l.Load("big.png")
	waitFor(t, l)

	require.NoError(t, tex.Err())
	assert.Equal(t, uint32(32), tex.Data().Width)
	assert.Equal(t, uint32(8), tex.Data().Height)
}

func TestNewTextureFromData(t *testing.T) {
	data := &common.TextureStagingData{Width: 1, Height: 1, Mips: [][]byte{{255, 255, 255, 255}}}
	tex := NewTextureFromData("white", data, WithRepeat(2, 3))

	<-tex.Ready()
	assert.Same(t, data, tex.Data())
	assert.Equal(t, "white", tex.Path())
	assert.Equal(t, [2]float32{2, 3}, tex.Repeat())

	tex.SetRepeat(1, 1)
	tex.SetWrap(WrapMirroredRepeat, WrapClampToEdge)
	s, tt := tex.Wrap()
	assert.Equal(t, WrapMirroredRepeat, s)
	assert.Equal(t, WrapClampToEdge, tt)
}
