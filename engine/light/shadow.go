package light

import (
	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowMapResolution is the default width and height in texels of the shadow
// depth texture.
const ShadowMapResolution = 512

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.001

// DefaultShadowNormalBias is the distance, in world units, the shadow lookup point
// is pushed along the surface normal before projection.
const DefaultShadowNormalBias float32 = 0.02

// ShadowConfig describes the orthographic camera a directional light renders its
// shadow map from, and the resolution of that map.
type ShadowConfig struct {
	MapSize    uint32
	Near       float32
	Far        float32
	Left       float32
	Right      float32
	Top        float32
	Bottom     float32
	Bias       float32
	NormalBias float32
}

// DefaultShadowConfig returns a small shadow camera box around the light target.
//
// Returns:
//   - ShadowConfig: the default parameters
func DefaultShadowConfig() ShadowConfig {
	return ShadowConfig{
		MapSize:    ShadowMapResolution,
		Near:       0.5,
		Far:        500,
		Left:       -5,
		Right:      5,
		Top:        5,
		Bottom:     -5,
		Bias:       DefaultShadowBias,
		NormalBias: DefaultShadowNormalBias,
	}
}

// TexelSize returns the size of one shadow map texel in UV units.
func (c ShadowConfig) TexelSize() float32 {
	if c.MapSize == 0 {
		return 0
	}
	return 1 / float32(c.MapSize)
}

// ShadowViewProjection computes the light-space view-projection matrix of a
// directional light: an orthographic box looking from the light position at its target.
//
// Parameters:
//   - l: the directional light
//
// Returns:
//   - mgl32.Mat4: the column-major light view-projection matrix
func ShadowViewProjection(l Light) mgl32.Mat4 {
	cfg := l.Shadow()
	eye, target := l.Position(), l.Target()

	up := mgl32.Vec3{0, 1, 0}
	if dir := eye.Sub(target); dir.Len() > 0 && mgl32.Abs(dir.Normalize().Dot(up)) > 0.999 {
		up = mgl32.Vec3{0, 0, 1}
	}

	var view, proj, out mgl32.Mat4
	common.LookAt(view[:], eye, target, up)
	common.Orthographic(proj[:], cfg.Left, cfg.Right, cfg.Bottom, cfg.Top, cfg.Near, cfg.Far)
	common.Mul4(out[:], proj[:], view[:])
	return out
}
