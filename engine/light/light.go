package light

import (
	"sync"

	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient lights every fragment uniformly regardless of orientation.
	LightTypeAmbient LightType = iota

	// LightTypeDirectional represents a distant source shining from its position
	// towards its target. Only the direction matters for shading; the position also
	// places the orthographic shadow camera.
	LightTypeDirectional
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu sync.Mutex

	lightType    LightType
	position     mgl32.Vec3
	target       mgl32.Vec3
	color        common.Color
	intensity    float32
	enabled      bool
	castsShadows bool
	shadow       ShadowConfig
}

// Light defines the interface for a light source in the scene.
//
// Lights are scene-level entities. The scene holds any number of them; the renderer
// sums ambient lights and shades with the first enabled directional light.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for ambient lights.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Target returns the world-space point the light shines towards.
	//
	// Returns:
	//   - mgl32.Vec3: the target point
	Target() mgl32.Vec3

	// Direction returns the normalized direction from the target towards the light,
	// which is the direction surfaces are lit from.
	//
	// Returns:
	//   - mgl32.Vec3: the unit direction, or +Y if position and target coincide
	Direction() mgl32.Vec3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - common.Color: the light colour
	Color() common.Color

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Enabled returns whether this light contributes to rendering.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// CastsShadows returns whether this light renders a shadow map.
	// Only directional lights cast shadows.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// Shadow returns the shadow camera configuration.
	//
	// Returns:
	//   - ShadowConfig: the shadow parameters
	Shadow() ShadowConfig

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// SetTarget sets the point the light shines towards.
	//
	// Parameters:
	//   - t: the new target
	SetTarget(t mgl32.Vec3)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - c: the new colour
	SetColor(c common.Color)

	// SetIntensity sets the intensity multiplier.
	//
	// Parameters:
	//   - intensity: the new intensity
	SetIntensity(intensity float32)

	// SetEnabled sets whether the light contributes to rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light instance configured with the provided options.
// Defaults to an enabled white directional light of intensity 1 shining straight down
// from (0, 1, 0) without shadows.
//
// Parameters:
//   - options: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: LightTypeDirectional,
		position:  mgl32.Vec3{0, 1, 0},
		color:     common.Color{1, 1, 1},
		intensity: 1,
		enabled:   true,
		shadow:    DefaultShadowConfig(),
	}
	for _, opt := range options {
		opt(l)
	}
	if l.lightType != LightTypeDirectional {
		l.castsShadows = false
	}
	return l
}

// NewAmbientLight creates an ambient light.
//
// Parameters:
//   - color: the light colour
//   - intensity: the intensity multiplier
//
// Returns:
//   - Light: the ambient light
func NewAmbientLight(color common.Color, intensity float32) Light {
	return NewLight(WithType(LightTypeAmbient), WithColor(color), WithIntensity(intensity))
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) Target() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.target
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	d := l.position.Sub(l.target)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return d.Normalize()
}

func (l *lightImpl) Color() common.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) Shadow() ShadowConfig {
	return l.shadow
}

func (l *lightImpl) SetPosition(p mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = p
}

func (l *lightImpl) SetTarget(t mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.target = t
}

func (l *lightImpl) SetColor(c common.Color) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = c
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}
