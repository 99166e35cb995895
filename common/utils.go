package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp limits v to the closed range [lo, hi].
func Clamp[T ~int | ~float32 | ~float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Color is a linear RGB triple in [0, 1].
type Color [3]float32

// Hex parses a 24-bit colour written as "#RRGGBB", "RRGGBB" or "0xRRGGBB".
//
// Parameters:
//   - s: the colour string
//
// Returns:
//   - Color: the parsed colour with each channel scaled to [0, 1]
//   - error: error if s is not a 6-digit hex colour
func Hex(s string) (Color, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "#"), "0x")
	if len(trimmed) != 6 {
		return Color{}, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return RGB(uint32(v)), nil
}

// MustHex is Hex for compile-time constants; it panics on malformed input.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RGB converts a packed 0xRRGGBB value into a Color.
func RGB(v uint32) Color {
	return Color{
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
	}
}

// Scale returns the colour multiplied by k, as used for light intensity.
func (c Color) Scale(k float32) Color {
	return Color{c[0] * k, c[1] * k, c[2] * k}
}

// Linear converts an sRGB-encoded colour to linear light using the exact sRGB transfer curve.
func (c Color) Linear() Color {
	var out Color
	for i, v := range c {
		if v <= 0.04045 {
			out[i] = v / 12.92
		} else {
			out[i] = math32.Pow((v+0.055)/1.055, 2.4)
		}
	}
	return out
}
