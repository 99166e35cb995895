package material

import (
	"sync"

	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/Carmen-Shannon/mystic-grove/engine/loader"
)

// Kind selects the shading model used for a material.
type Kind uint32

const (
	// KindStandard is lit by ambient and directional light and receives shadows.
	KindStandard Kind = iota

	// KindBasic ignores lighting and writes its colour directly.
	KindBasic

	// KindWater is a lit, translucent surface whose normal map scrolls over time.
	KindWater
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindBasic:
		return "basic"
	case KindWater:
		return "water"
	default:
		return "unknown"
	}
}

// material is the implementation of the Material interface.
type material struct {
	mu sync.Mutex

	name              string
	kind              Kind
	color             common.Color
	emissive          common.Color
	emissiveIntensity float32
	roughness         float32
	opacity           float32
	transparent       bool
	normalScroll      [2]float32

	colorMap     *loader.Texture
	normalMap    *loader.Texture
	roughnessMap *loader.Texture
	alphaMap     *loader.Texture

	version uint64
}

// Material describes how a surface is shaded: its kind, flat colours and optional
// texture maps. Texture handles may still be loading; the renderer binds whatever has
// resolved and picks up the rest on later frames.
//
// Materials are shared between game objects. Every setter bumps Version so GPU-side
// copies can tell when they are stale.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Kind retrieves the shading model.
	//
	// Returns:
	//   - Kind: the material kind
	Kind() Kind

	// Color retrieves the base colour, multiplied with the colour map when one is bound.
	//
	// Returns:
	//   - common.Color: the base colour
	Color() common.Color

	// Emissive retrieves the emitted colour and its intensity multiplier.
	//
	// Returns:
	//   - common.Color: the emissive colour
	//   - float32: the emissive intensity
	Emissive() (common.Color, float32)

	// Roughness retrieves the roughness factor in [0, 1].
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// Opacity retrieves the surface opacity. Only transparent materials are blended.
	//
	// Returns:
	//   - float32: the opacity in [0, 1]
	Opacity() float32

	// Transparent reports whether the material is drawn in the blended pass.
	//
	// Returns:
	//   - bool: true for blended materials
	Transparent() bool

	// NormalScroll retrieves the UV offset per second applied to the normal map.
	//
	// Returns:
	//   - [2]float32: scroll speed in UV units per second
	NormalScroll() [2]float32

	// ColorMap retrieves the colour texture, or nil.
	ColorMap() *loader.Texture

	// NormalMap retrieves the tangent-space normal texture, or nil.
	NormalMap() *loader.Texture

	// RoughnessMap retrieves the roughness texture (green channel), or nil.
	RoughnessMap() *loader.Texture

	// AlphaMap retrieves the opacity texture (green channel), or nil.
	AlphaMap() *loader.Texture

	// UVRepeat returns the tiling applied to texture coordinates. It is taken from the
	// first bound map, in colour, normal, roughness, alpha order, and defaults to 1x1.
	//
	// Returns:
	//   - [2]float32: repeat counts along u and v
	UVRepeat() [2]float32

	// SetColor replaces the base colour.
	//
	// Parameters:
	//   - c: the new base colour
	SetColor(c common.Color)

	// SetEmissive replaces the emitted colour and intensity.
	//
	// Parameters:
	//   - c: the emissive colour
	//   - intensity: the multiplier applied to c
	SetEmissive(c common.Color, intensity float32)

	// SetOpacity replaces the opacity.
	//
	// Parameters:
	//   - opacity: the new opacity, clamped to [0, 1]
	SetOpacity(opacity float32)

	// Version returns a counter that increases on every mutation.
	//
	// Returns:
	//   - uint64: the mutation counter
	Version() uint64
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// The defaults are a white, fully rough, opaque standard material.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		kind:      KindStandard,
		color:     common.Color{1, 1, 1},
		roughness: 1,
		opacity:   1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Kind() Kind {
	return m.kind
}

func (m *material) Color() common.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.color
}

func (m *material) Emissive() (common.Color, float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.emissive, m.emissiveIntensity
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) Opacity() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opacity
}

func (m *material) Transparent() bool {
	return m.transparent
}

func (m *material) NormalScroll() [2]float32 {
	return m.normalScroll
}

func (m *material) ColorMap() *loader.Texture {
	return m.colorMap
}

func (m *material) NormalMap() *loader.Texture {
	return m.normalMap
}

func (m *material) RoughnessMap() *loader.Texture {
	return m.roughnessMap
}

func (m *material) AlphaMap() *loader.Texture {
	return m.alphaMap
}

func (m *material) UVRepeat() [2]float32 {
	for _, t := range []*loader.Texture{m.colorMap, m.normalMap, m.roughnessMap, m.alphaMap} {
		if t != nil {
			return t.Repeat()
		}
	}
	return [2]float32{1, 1}
}

func (m *material) SetColor(c common.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.color = c
	m.version++
}

func (m *material) SetEmissive(c common.Color, intensity float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emissive = c
	m.emissiveIntensity = intensity
	m.version++
}

func (m *material) SetOpacity(opacity float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opacity = common.Clamp(opacity, 0, 1)
	m.version++
}

func (m *material) Version() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}
