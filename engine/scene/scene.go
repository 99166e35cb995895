package scene

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/mystic-grove/common"
	"github.com/Carmen-Shannon/mystic-grove/engine/game_object"
	"github.com/Carmen-Shannon/mystic-grove/engine/light"
)

// Fog fades fragments linearly towards Color between Near and Far distance from the camera.
type Fog struct {
	Color common.Color
	Near  float32
	Far   float32
}

// Factor returns how much of the fog colour covers a fragment at the given
// distance from the camera: 0 before Near, 1 beyond Far.
//
// Parameters:
//   - distance: eye-to-fragment distance
//
// Returns:
//   - float32: the fog blend factor in [0, 1]
func (f Fog) Factor(distance float32) float32 {
	if f.Far <= f.Near {
		if distance >= f.Far {
			return 1
		}
		return 0
	}
	return common.Clamp((distance-f.Near)/(f.Far-f.Near), 0, 1)
}

// Scene is the root container of a rendered world: game objects, lights, fog and the
// background colour. It owns no GPU state; renderers read it each frame.
// Scenes can be hot-swapped via the Active flag to switch between different views.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Count returns the number of GameObjects in the scene.
	//
	// Returns:
	//   - int: count of GameObjects in the registry
	Count() int

	// Add adds a GameObject to the scene and assigns it an ID if it has none.
	// Adding an object that is already in the scene returns its ID without
	// changing its position in the draw order.
	//
	// Panics if obj is nil or has no Model.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the assigned object ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a GameObject by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove removes a GameObject by ID. Unknown IDs are ignored.
	//
	// Parameters:
	//   - id: the object's unique ID
	Remove(id uint64)

	// Clear removes all objects and lights from the scene.
	Clear()

	// Objects returns every GameObject in insertion order.
	//
	// Returns:
	//   - []game_object.GameObject: a copy of the object list
	Objects() []game_object.GameObject

	// Group returns the members of a decorative group in insertion order.
	//
	// Parameters:
	//   - name: the group name
	//
	// Returns:
	//   - []game_object.GameObject: the group members, empty if none
	Group(name string) []game_object.GameObject

	// Groups returns the names of every non-empty group in first-seen order.
	//
	// Returns:
	//   - []string: the group names
	Groups() []string

	// AddLight adds a light source to the scene.
	//
	// Parameters:
	//   - l: the Light to add
	AddLight(l light.Light)

	// RemoveLight removes a light source from the scene by reference.
	//
	// Parameters:
	//   - l: the Light to remove
	RemoveLight(l light.Light)

	// Lights returns all lights currently registered in the scene.
	//
	// Returns:
	//   - []light.Light: a copy of the scene's light list
	Lights() []light.Light

	// Fog returns the scene fog, or nil when fog is disabled.
	//
	// Returns:
	//   - *Fog: a copy of the fog settings or nil
	Fog() *Fog

	// SetFog replaces the scene fog. Pass nil to disable fog.
	//
	// Parameters:
	//   - fog: the fog settings
	SetFog(fog *Fog)

	// Background returns the colour the frame is cleared to.
	//
	// Returns:
	//   - common.Color: the clear colour
	Background() common.Color

	// SetBackground sets the colour the frame is cleared to.
	//
	// Parameters:
	//   - c: the clear colour
	SetBackground(c common.Color)
}

type scene struct {
	mu sync.RWMutex

	name   string
	active bool

	nextID   uint64
	registry map[uint64]game_object.GameObject
	order    []uint64

	lights     []light.Light
	fog        *Fog
	background common.Color
}

var _ Scene = &scene{}

// NewScene creates an active, empty scene configured with the provided options.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		active:   true,
		nextID:   1,
		registry: make(map[uint64]game_object.GameObject),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	if obj == nil {
		panic("scene: cannot Add a nil GameObject")
	}
	if obj.Model() == nil {
		panic("scene: cannot Add a GameObject without a Model")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(obj)
}

// addLocked registers obj. Caller must hold the write lock.
func (s *scene) addLocked(obj game_object.GameObject) uint64 {
	if id := obj.ID(); id != 0 {
		if existing, ok := s.registry[id]; ok {
			if existing == obj {
				return id
			}
			obj.SetID(0)
		}
	}
	if obj.ID() == 0 {
		for s.registry[s.nextID] != nil {
			s.nextID++
		}
		obj.SetID(s.nextID)
		s.nextID++
	}
	id := obj.ID()
	s.registry[id] = obj
	s.order = append(s.order, id)
	return id
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registry[id]; !ok {
		return
	}
	delete(s.registry, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = make(map[uint64]game_object.GameObject)
	s.order = nil
	s.lights = nil
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]game_object.GameObject, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.registry[id])
	}
	return out
}

func (s *scene) Group(name string) []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []game_object.GameObject
	for _, id := range s.order {
		if obj := s.registry[id]; obj.Group() == name {
			out = append(out, obj)
		}
	}
	return out
}

func (s *scene) Groups() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for _, id := range s.order {
		if g := s.registry[id].Group(); g != "" && !slices.Contains(names, g) {
			names = append(names, g)
		}
	}
	return names
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *scene) RemoveLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.lights {
		if existing == l {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			return
		}
	}
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lights)
}

func (s *scene) Fog() *Fog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.fog == nil {
		return nil
	}
	f := *s.fog
	return &f
}

func (s *scene) SetFog(fog *Fog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fog == nil {
		s.fog = nil
		return
	}
	f := *fog
	s.fog = &f
}

func (s *scene) Background() common.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

func (s *scene) SetBackground(c common.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = c
}
