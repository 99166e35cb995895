package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/Carmen-Shannon/mystic-grove/engine/loader"
	"github.com/stretchr/testify/assert"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()
	assert.Equal(t, KindStandard, m.Kind())
	assert.Equal(t, common.Color{1, 1, 1}, m.Color())
	assert.Equal(t, float32(1), m.Roughness())
	assert.Equal(t, float32(1), m.Opacity())
	assert.False(t, m.Transparent())
	assert.Equal(t, [2]float32{1, 1}, m.UVRepeat())
}

func TestWaterIsTransparent(t *testing.T) {
	m := NewMaterial(WithKind(KindWater))
	assert.True(t, m.Transparent())
	assert.Equal(t, "water", m.Kind().String())
}

func TestSettersBumpVersion(t *testing.T) {
	m := NewMaterial()
	v := m.Version()
	m.SetColor(common.Color{0, 1, 0})
	m.SetEmissive(common.Color{1, 0, 0}, 0.3)
	m.SetOpacity(2)
	assert.Equal(t, v+3, m.Version())
	assert.Equal(t, float32(1), m.Opacity())
}

func TestParamsOnlyFlagsResolvedMaps(t *testing.T) {
	staged := &common.TextureStagingData{Mips: [][]byte{make([]byte, 4)}, Width: 1, Height: 1}
	resolved := loader.NewTextureFromData("moss", staged, loader.WithRepeat(10, 10))
	pending := loader.NewTextureFromData("broken", nil)

	m := NewMaterial(
		WithColorMap(resolved),
		WithNormalMap(pending),
		WithEmissive(common.Color{0, 0.5, 1}, 0.5),
		WithRoughness(0.25),
	)
	p := Params(m)
	assert.Equal(t, FlagColorMap, p.Flags)
	assert.Equal(t, [2]float32{10, 10}, p.UVRepeat)
	assert.InDelta(t, 0, p.Emissive[0], 1e-6)
	assert.InDelta(t, 0.5*common.Color{0.5}.Linear()[0], p.Emissive[1], 1e-6)
	assert.InDelta(t, 0.5, p.Emissive[2], 1e-6)
	assert.Equal(t, float32(0.25), p.Emissive[3])
	assert.Equal(t, float32(1), p.Color[3])
}

func TestMarshalLayout(t *testing.T) {
	p := GPUMaterialParams{
		Color:        [4]float32{1, 2, 3, 4},
		Kind:         uint32(KindWater),
		Flags:        FlagNormalMap | FlagAlphaMap,
		NormalScroll: [2]float32{0.5, 0.25},
	}
	buf := p.Marshal()
	assert.Len(t, buf, p.Size())
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])))
	assert.Equal(t, uint32(KindWater), binary.LittleEndian.Uint32(buf[40:44]))
	assert.Equal(t, FlagNormalMap|FlagAlphaMap, binary.LittleEndian.Uint32(buf[44:48]))
	assert.Equal(t, float32(0.25), math.Float32frombits(binary.LittleEndian.Uint32(buf[52:56])))
}
