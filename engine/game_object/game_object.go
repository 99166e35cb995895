package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/mystic-grove/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	mu sync.Mutex

	id      uint64
	name    string
	group   string
	enabled atomic.Bool
	mdl     model.Model

	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3

	castShadow    bool
	receiveShadow bool
}

// GameObject defines the interface for a placed instance of a Model in the scene.
// The transform is a position, an XYZ Euler rotation in radians and a per-axis scale;
// the world matrix is composed as translate * rotateX * rotateY * rotateZ * scale.
type GameObject interface {
	// ID returns the object's unique identifier, assigned by the scene on Add.
	//
	// Returns:
	//   - uint64: the object ID, or 0 if not yet added
	ID() uint64

	// Name returns the debug name of the object.
	//
	// Returns:
	//   - string: the object name
	Name() string

	// Group returns the decorative group the object belongs to, or "" for none.
	//
	// Returns:
	//   - string: the group name
	Group() string

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Position returns the world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Rotation returns the XYZ Euler rotation in radians.
	//
	// Returns:
	//   - mgl32.Vec3: the rotation angles
	Rotation() mgl32.Vec3

	// Scale returns the per-axis scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale factors
	Scale() mgl32.Vec3

	// CastShadow reports whether the object is drawn into the shadow map.
	CastShadow() bool

	// ReceiveShadow reports whether the object is darkened by the shadow map.
	ReceiveShadow() bool

	// ModelMatrix composes the world matrix from the current transform.
	//
	// Returns:
	//   - mgl32.Mat4: the model-to-world matrix
	ModelMatrix() mgl32.Mat4

	// NormalMatrix returns the inverse transpose of the model matrix, used to
	// transform normals under non-uniform scale.
	//
	// Returns:
	//   - mgl32.Mat4: the normal matrix
	NormalMatrix() mgl32.Mat4

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetModel assigns a Model to this object.
	//
	// Parameters:
	//   - m: the Model to associate
	SetModel(m model.Model)

	// SetPosition replaces the world-space position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// Translate moves the object by an offset.
	//
	// Parameters:
	//   - d: the offset to add to the position
	Translate(d mgl32.Vec3)

	// SetRotation replaces the XYZ Euler rotation.
	//
	// Parameters:
	//   - r: the new rotation angles in radians
	SetRotation(r mgl32.Vec3)

	// SetScale replaces the per-axis scale.
	//
	// Parameters:
	//   - s: the new scale factors
	SetScale(s mgl32.Vec3)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new enabled GameObject at the origin with unit scale,
// configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: mgl32.Vec3{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	if obj.name == "" && obj.mdl != nil {
		obj.name = obj.mdl.Name()
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Group() string {
	return g.group
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Model() model.Model {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mdl
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale
}

func (g *gameObject) CastShadow() bool {
	return g.castShadow
}

func (g *gameObject) ReceiveShadow() bool {
	return g.receiveShadow
}

func (g *gameObject) ModelMatrix() mgl32.Mat4 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return mgl32.Translate3D(g.position[0], g.position[1], g.position[2]).
		Mul4(mgl32.HomogRotate3DX(g.rotation[0])).
		Mul4(mgl32.HomogRotate3DY(g.rotation[1])).
		Mul4(mgl32.HomogRotate3DZ(g.rotation[2])).
		Mul4(mgl32.Scale3D(g.scale[0], g.scale[1], g.scale[2]))
}

func (g *gameObject) NormalMatrix() mgl32.Mat4 {
	m := g.ModelMatrix()
	if m.Det() == 0 {
		return mgl32.Ident4()
	}
	return m.Inv().Transpose()
}

func (g *gameObject) SetID(id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetModel(m model.Model) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mdl = m
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = p
}

func (g *gameObject) Translate(d mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = g.position.Add(d)
}

func (g *gameObject) SetRotation(r mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = r
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = s
}
