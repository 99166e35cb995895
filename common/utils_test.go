package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, float32(2), Coalesce[float32](0, 2))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(2), Clamp[float32](3, 1, 2))
	assert.Equal(t, 1, Clamp(-4, 1, 5))
	assert.Equal(t, 0.5, Clamp(0.5, 0, 1))
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ffffff", Color{1, 1, 1}},
		{"000000", Color{0, 0, 0}},
		{"0xFF0000", Color{1, 0, 0}},
		{"#8B4513", Color{139.0 / 255, 69.0 / 255, 19.0 / 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Hex(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Hex("#abc")
	assert.Error(t, err)
	_, err = Hex("#zzzzzz")
	assert.Error(t, err)
	assert.Panics(t, func() { MustHex("nope") })
}

func TestColorScale(t *testing.T) {
	assert.Equal(t, Color{0.5, 1, 0}, Color{0.25, 0.5, 0}.Scale(2))
	assert.Equal(t, RGB(0x0f5e9c), MustHex("#0f5e9c"))
}

func TestColorLinear(t *testing.T) {
	lin := Color{0, 1, 0.5}.Linear()
	assert.Equal(t, float32(0), lin[0])
	assert.InDelta(t, 1, lin[1], 1e-6)
	assert.InDelta(t, 0.214, lin[2], 1e-3)
	assert.InDelta(t, 0.02/12.92, Color{0.02}.Linear()[0], 1e-7)
}
