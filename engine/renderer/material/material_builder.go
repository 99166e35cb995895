package material

import (
	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/Carmen-Shannon/mystic-grove/engine/loader"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithKind is an option builder that sets the shading model of the material.
// Water materials are always transparent.
//
// Parameters:
//   - kind: the shading model
//
// Returns:
//   - MaterialBuilderOption: a function that applies the kind option to a material
func WithKind(kind Kind) MaterialBuilderOption {
	return func(m *material) {
		m.kind = kind
		if kind == KindWater {
			m.transparent = true
		}
	}
}

// WithColor is an option builder that sets the base colour of the material.
//
// Parameters:
//   - color: the base colour
//
// Returns:
//   - MaterialBuilderOption: a function that applies the colour option to a material
func WithColor(color common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.color = color
	}
}

// WithEmissive is an option builder that sets the emitted colour and its intensity.
//
// Parameters:
//   - color: the emissive colour
//   - intensity: the multiplier applied to color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive option to a material
func WithEmissive(color common.Color, intensity float32) MaterialBuilderOption {
	return func(m *material) {
		m.emissive = color
		m.emissiveIntensity = intensity
	}
}

// WithRoughness is an option builder that sets the roughness factor of the material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = common.Clamp(roughness, 0, 1)
	}
}

// WithOpacity is an option builder that marks the material transparent with the given opacity.
//
// Parameters:
//   - opacity: the opacity in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = common.Clamp(opacity, 0, 1)
		m.transparent = true
	}
}

// WithColorMap sets the colour texture.
func WithColorMap(t *loader.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.colorMap = t
	}
}

// WithNormalMap sets the tangent-space normal texture.
func WithNormalMap(t *loader.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.normalMap = t
	}
}

// WithRoughnessMap sets the roughness texture.
func WithRoughnessMap(t *loader.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.roughnessMap = t
	}
}

// WithAlphaMap sets the opacity texture and marks the material transparent.
func WithAlphaMap(t *loader.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.alphaMap = t
		m.transparent = true
	}
}

// WithNormalScroll is an option builder that animates the normal map by offsetting its
// texture coordinates over time.
//
// Parameters:
//   - u, v: scroll speed in UV units per second
//
// Returns:
//   - MaterialBuilderOption: a function that applies the scroll option to a material
func WithNormalScroll(u, v float32) MaterialBuilderOption {
	return func(m *material) {
		m.normalScroll = [2]float32{u, v}
	}
}
