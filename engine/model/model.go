package model

import (
	"sync"

	"github.com/Carmen-Shannon/mystic-grove/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	mu sync.Mutex

	name     string
	geometry Geometry
	material material.Material

	mesh *Mesh
}

// Model pairs a Geometry with the Material it is drawn with.
// Many game objects may share one Model; the renderer keys GPU mesh buffers by
// the geometry key and material bind groups by the material.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Geometry retrieves the procedural shape.
	//
	// Returns:
	//   - Geometry: the geometry, or nil if unset
	Geometry() Geometry

	// Material retrieves the surface description.
	//
	// Returns:
	//   - material.Material: the material, or nil if unset
	Material() material.Material

	// Mesh returns the tessellated geometry, building it on first use.
	//
	// Returns:
	//   - *Mesh: the mesh, or nil if no geometry is set
	Mesh() *Mesh

	// BoundingRadius returns the model-space bounding sphere radius of the geometry.
	//
	// Returns:
	//   - float32: the radius, or 0 if no geometry is set
	BoundingRadius() float32

	// SetMaterial replaces the model's material.
	//
	// Parameters:
	//   - mat: the new material
	SetMaterial(mat material.Material)
}

var _ Model = &model{}

// NewModel creates a Model from a geometry and material.
//
// Parameters:
//   - geometry: the shape to draw
//   - mat: the surface description
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the new model
func NewModel(geometry Geometry, mat material.Material, options ...ModelBuilderOption) Model {
	m := &model{
		geometry: geometry,
		material: mat,
	}
	if geometry != nil {
		m.name = geometry.Key()
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Geometry() Geometry {
	return m.geometry
}

func (m *model) Material() material.Material {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.material
}

func (m *model) SetMaterial(mat material.Material) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.material = mat
}

func (m *model) Mesh() *Mesh {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mesh == nil && m.geometry != nil {
		m.mesh = m.geometry.Build()
	}
	return m.mesh
}

func (m *model) BoundingRadius() float32 {
	if m.geometry == nil {
		return 0
	}
	return m.geometry.BoundingRadius()
}
