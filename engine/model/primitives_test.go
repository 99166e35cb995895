package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveCounts(t *testing.T) {
	tests := []struct {
		name     string
		geometry Geometry
		vertices int
		indices  int
	}{
		{"trunk cylinder", Cylinder{RadiusTop: 0.5, RadiusBottom: 0.5, Height: 7, RadialSegments: 16, HeightSegments: 1}, 100, 192},
		{"foliage sphere", Sphere{Radius: 1, WidthSegments: 16, HeightSegments: 16}, 289, 1440},
		{"crystal cone", Cone{Radius: 0.2, Height: 1, RadialSegments: 8}, 35, 48},
		{"water plane", Plane{Width: 36, Height: 36}, 4, 6},
		{"open cylinder", Cylinder{RadiusTop: 1, RadiusBottom: 1, Height: 1, RadialSegments: 4, OpenEnded: true}, 10, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.geometry.Build()
			assert.Len(t, m.Vertices, tt.vertices)
			assert.Len(t, m.Indices, tt.indices)
			assert.Equal(t, tt.indices, m.IndexCount())
			for _, idx := range m.Indices {
				require.Less(t, int(idx), len(m.Vertices))
			}
		})
	}
}

func TestPrimitiveWindingMatchesNormals(t *testing.T) {
	geometries := []Geometry{
		Cylinder{RadiusTop: 0.1, RadiusBottom: 0.2, Height: 2, RadialSegments: 4, HeightSegments: 1},
		Sphere{Radius: 9, WidthSegments: 15, HeightSegments: 5},
		Cone{Radius: 0.2, Height: 1, RadialSegments: 8},
		Plane{Width: 50, Height: 50, WidthSegments: 2, HeightSegments: 3},
	}
	for _, g := range geometries {
		t.Run(g.Key(), func(t *testing.T) {
			m := g.Build()
			for i := 0; i < len(m.Indices); i += 3 {
				v0 := m.Vertices[m.Indices[i]]
				v1 := m.Vertices[m.Indices[i+1]]
				v2 := m.Vertices[m.Indices[i+2]]
				e1 := mgl32.Vec3(v1.Position).Sub(v0.Position)
				e2 := mgl32.Vec3(v2.Position).Sub(v0.Position)
				face := e1.Cross(e2)
				if face.Len() < 1e-6 {
					continue
				}
				avg := mgl32.Vec3(v0.Normal).Add(v1.Normal).Add(v2.Normal)
				assert.Greater(t, face.Dot(avg), float32(0), "triangle %d faces inward", i/3)
			}
		})
	}
}

func TestPrimitiveVertexAttributes(t *testing.T) {
	geometries := []Geometry{
		Cylinder{RadiusTop: 0.5, RadiusBottom: 0.5, Height: 7, RadialSegments: 16, HeightSegments: 1},
		Sphere{Radius: 0.05, WidthSegments: 8, HeightSegments: 8},
		Cone{Radius: 0.2, Height: 1, RadialSegments: 8},
		Plane{Width: 36, Height: 36},
	}
	for _, g := range geometries {
		t.Run(g.Key(), func(t *testing.T) {
			m := g.Build()
			radius := g.BoundingRadius()
			for i, v := range m.Vertices {
				n := mgl32.Vec3(v.Normal)
				tan := mgl32.Vec3{v.Tangent[0], v.Tangent[1], v.Tangent[2]}
				assert.InDelta(t, 1, n.Len(), 1e-4, "normal %d", i)
				assert.InDelta(t, 1, tan.Len(), 1e-4, "tangent %d", i)
				assert.InDelta(t, 0, n.Dot(tan), 1e-4, "tangent %d not orthogonal", i)
				assert.LessOrEqual(t, mgl32.Vec3(v.Position).Len(), radius+1e-4)
				assert.Contains(t, []float32{-1, 1}, v.Tangent[3])
			}
		})
	}
}

func TestMeshBytes(t *testing.T) {
	m := Plane{Width: 1, Height: 1}.Build()
	assert.Len(t, m.VertexBytes(), 4*int(GPUVertexSize))
	assert.Len(t, m.IndexBytes(), 6*4)
	assert.Equal(t, uint64(48), GPUVertexSize)
}

func TestGeometryKeysDistinguishParameters(t *testing.T) {
	a := Sphere{Radius: 1, WidthSegments: 16, HeightSegments: 16}
	b := Sphere{Radius: 0.05, WidthSegments: 8, HeightSegments: 8}
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, a.Key(), Sphere{Radius: 1, WidthSegments: 16, HeightSegments: 16}.Key())
	assert.NotEqual(t, Cone{Radius: 1, Height: 1, RadialSegments: 8}.Key(),
		Cylinder{RadiusBottom: 1, Height: 1, RadialSegments: 8, HeightSegments: 1}.Key())
}

func TestModelCachesMesh(t *testing.T) {
	m := NewModel(Sphere{Radius: 1, WidthSegments: 8, HeightSegments: 8}, nil)
	assert.Same(t, m.Mesh(), m.Mesh())
	assert.Equal(t, "sphere(1,8,8)", m.Name())
	assert.Equal(t, float32(1), m.BoundingRadius())

	named := NewModel(nil, nil, WithName("empty"))
	assert.Nil(t, named.Mesh())
	assert.Equal(t, "empty", named.Name())
	assert.Zero(t, named.BoundingRadius())
}
