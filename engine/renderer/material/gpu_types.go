package material

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/mystic-grove/engine/loader"
)

// Bits of GPUMaterialParams.Flags marking which texture maps are bound and resolved.
const (
	FlagColorMap uint32 = 1 << iota
	FlagNormalMap
	FlagRoughnessMap
	FlagAlphaMap
)

// GPUMaterialParams is the GPU-aligned uniform for a material.
// Matches the WGSL MaterialParams struct of the lit program exactly.
// Size: 64 bytes (std140 aligned).
type GPUMaterialParams struct {
	Color        [4]float32 // offset  0: base colour (rgb) + opacity (a)
	Emissive     [4]float32 // offset 16: linear emissive colour pre-multiplied by intensity (rgb) + roughness (a)
	UVRepeat     [2]float32 // offset 32: texture coordinate tiling
	Kind         uint32     // offset 40: shading model
	Flags        uint32     // offset 44: Flag* bits
	NormalScroll [2]float32 // offset 48: normal map UV offset per second
	_            [2]float32 // offset 56: padding
}

// Size returns the size of the GPUMaterialParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 64-byte buffer ready for GPU upload.
func (g *GPUMaterialParams) Marshal() []byte {
	buf := make([]byte, 64)
	putFloats(buf[0:16], g.Color[:])
	putFloats(buf[16:32], g.Emissive[:])
	putFloats(buf[32:40], g.UVRepeat[:])
	binary.LittleEndian.PutUint32(buf[40:44], g.Kind)
	binary.LittleEndian.PutUint32(buf[44:48], g.Flags)
	putFloats(buf[48:56], g.NormalScroll[:])
	return buf
}

func putFloats(dst []byte, values []float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(dst[i*4:i*4+4], math.Float32bits(v))
	}
}

// Params snapshots the material into its uniform form. A map only sets its flag once
// its handle has resolved with pixel data, so a missing or failed texture falls back
// to the flat colour.
//
// Parameters:
//   - m: the material to snapshot
//
// Returns:
//   - GPUMaterialParams: the uniform contents
func Params(m Material) GPUMaterialParams {
	color := m.Color()
	emissive, intensity := m.Emissive()
	emissive = emissive.Linear()
	opacity := float32(1)
	if m.Transparent() {
		opacity = m.Opacity()
	}
	return GPUMaterialParams{
		Color:        [4]float32{color[0], color[1], color[2], opacity},
		Emissive:     [4]float32{emissive[0] * intensity, emissive[1] * intensity, emissive[2] * intensity, m.Roughness()},
		UVRepeat:     m.UVRepeat(),
		Kind:         uint32(m.Kind()),
		Flags:        ResolvedMaps(m),
		NormalScroll: m.NormalScroll(),
	}
}

// ResolvedMaps returns the Flag* bits of every map whose pixels are available.
//
// Parameters:
//   - m: the material to inspect
//
// Returns:
//   - uint32: the combined flag bits
func ResolvedMaps(m Material) uint32 {
	var flags uint32
	for flag, t := range map[uint32]*loader.Texture{
		FlagColorMap:     m.ColorMap(),
		FlagNormalMap:    m.NormalMap(),
		FlagRoughnessMap: m.RoughnessMap(),
		FlagAlphaMap:     m.AlphaMap(),
	} {
		if t != nil && t.Data() != nil {
			flags |= flag
		}
	}
	return flags
}
