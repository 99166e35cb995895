package light

import (
	"unsafe"

	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPULighting is the lighting portion of the per-frame uniform.
// Matches the WGSL Lighting struct of the lit program exactly.
// Size: 128 bytes (std140 aligned).
//
// Layout:
//
//	mat4x4<f32> light_view_proj (64 bytes, offset 0)
//	vec4<f32>   ambient         (16 bytes, offset 64)  linear rgb pre-multiplied by intensity
//	vec4<f32>   direction       (16 bytes, offset 80)  xyz towards the light, w = shadows enabled
//	vec4<f32>   color           (16 bytes, offset 96)  linear rgb pre-multiplied by intensity, w = shadow texel size
//	vec4<f32>   shadow          (16 bytes, offset 112) x = bias, y = normal bias
type GPULighting struct {
	LightViewProj [16]float32
	Ambient       [4]float32
	Direction     [4]float32
	Color         [4]float32
	Shadow        [4]float32
}

// Size returns the size of the GPULighting struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (128)
func (g *GPULighting) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal returns the struct as bytes ready for GPU upload.
//
// Returns:
//   - []byte: 128-byte view of the struct
func (g *GPULighting) Marshal() []byte {
	return common.StructToBytes(g)
}

// Pack reduces a scene's lights to the single-directional lighting model of the lit
// program: enabled ambient lights are summed and the first enabled directional light
// provides direction, colour and the shadow camera. With no directional light the
// direction is +Y with zero colour.
//
// Parameters:
//   - lights: the scene lights in insertion order
//
// Returns:
//   - GPULighting: the packed uniform
//   - Light: the directional light used, or nil
func Pack(lights []Light) (GPULighting, Light) {
	var out GPULighting
	out.Direction = [4]float32{0, 1, 0, 0}
	ident := mgl32.Ident4()
	copy(out.LightViewProj[:], ident[:])

	var sun Light
	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		switch l.Type() {
		case LightTypeAmbient:
			c := l.Color().Linear().Scale(l.Intensity())
			out.Ambient[0] += c[0]
			out.Ambient[1] += c[1]
			out.Ambient[2] += c[2]
		case LightTypeDirectional:
			if sun == nil {
				sun = l
			}
		}
	}
	if sun == nil {
		return out, nil
	}

	dir := sun.Direction()
	c := sun.Color().Linear().Scale(sun.Intensity())
	cfg := sun.Shadow()
	out.Direction = [4]float32{dir[0], dir[1], dir[2], 0}
	out.Color = [4]float32{c[0], c[1], c[2], cfg.TexelSize()}
	out.Shadow = [4]float32{cfg.Bias, cfg.NormalBias, 0, 0}
	if sun.CastsShadows() {
		out.Direction[3] = 1
		vp := ShadowViewProjection(sun)
		copy(out.LightViewProj[:], vp[:])
	}
	return out, sun
}
