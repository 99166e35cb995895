package model

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Geometry describes a procedural shape that can be tessellated into a Mesh.
// Geometries are plain values; two geometries with the same Key produce identical
// meshes, which lets the renderer share GPU buffers between them.
type Geometry interface {
	// Key identifies the tessellation, including every parameter.
	Key() string

	// Build tessellates the geometry.
	Build() *Mesh

	// BoundingRadius is the radius of a sphere around the model-space origin that
	// contains every vertex.
	BoundingRadius() float32
}

// Cylinder is a capped (unless OpenEnded) cylinder or truncated cone centred on the
// origin with its axis along +Y.
type Cylinder struct {
	RadiusTop      float32
	RadiusBottom   float32
	Height         float32
	RadialSegments int
	HeightSegments int
	OpenEnded      bool
}

// Sphere is a UV sphere centred on the origin.
type Sphere struct {
	Radius         float32
	WidthSegments  int
	HeightSegments int
}

// Cone is a cylinder with a zero top radius.
type Cone struct {
	Radius         float32
	Height         float32
	RadialSegments int
}

// Plane is a rectangle in the XY plane facing +Z.
type Plane struct {
	Width          float32
	Height         float32
	WidthSegments  int
	HeightSegments int
}

var (
	_ Geometry = Cylinder{}
	_ Geometry = Sphere{}
	_ Geometry = Cone{}
	_ Geometry = Plane{}
)

func (c Cylinder) Key() string {
	return fmt.Sprintf("cylinder(%g,%g,%g,%d,%d,%t)",
		c.RadiusTop, c.RadiusBottom, c.Height, c.RadialSegments, c.HeightSegments, c.OpenEnded)
}

func (c Cylinder) BoundingRadius() float32 {
	r := max(c.RadiusTop, c.RadiusBottom)
	return math32.Sqrt(r*r + c.Height*c.Height/4)
}

func (c Cylinder) Build() *Mesh {
	radial := max(c.RadialSegments, 3)
	rows := max(c.HeightSegments, 1)
	half := c.Height / 2
	slope := (c.RadiusBottom - c.RadiusTop) / c.Height

	m := &Mesh{}
	grid := make([][]uint32, rows+1)
	for y := 0; y <= rows; y++ {
		v := float32(y) / float32(rows)
		radius := v*(c.RadiusBottom-c.RadiusTop) + c.RadiusTop
		grid[y] = make([]uint32, radial+1)
		for x := 0; x <= radial; x++ {
			u := float32(x) / float32(radial)
			sin, cos := math32.Sincos(u * 2 * math32.Pi)
			normal := mgl32.Vec3{sin, slope, cos}.Normalize()
			grid[y][x] = uint32(len(m.Vertices))
			m.Vertices = append(m.Vertices, GPUVertex{
				Position: [3]float32{radius * sin, -v*c.Height + half, radius * cos},
				Normal:   normal,
				TexCoord: [2]float32{u, v},
			})
		}
	}
	for x := 0; x < radial; x++ {
		for y := 0; y < rows; y++ {
			a, b, cc, d := grid[y][x], grid[y+1][x], grid[y+1][x+1], grid[y][x+1]
			if c.RadiusTop > 0 || y != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if c.RadiusBottom > 0 || y != rows-1 {
				m.Indices = append(m.Indices, b, cc, d)
			}
		}
	}

	if !c.OpenEnded {
		if c.RadiusTop > 0 {
			c.cap(m, radial, true)
		}
		if c.RadiusBottom > 0 {
			c.cap(m, radial, false)
		}
	}
	computeTangents(m)
	return m
}

// cap appends a flat disc at the top or bottom of the cylinder.
func (c Cylinder) cap(m *Mesh, radial int, top bool) {
	radius, sign := c.RadiusBottom, float32(-1)
	if top {
		radius, sign = c.RadiusTop, 1
	}
	y := sign * c.Height / 2
	normal := [3]float32{0, sign, 0}

	centerStart := uint32(len(m.Vertices))
	for x := 0; x < radial; x++ {
		m.Vertices = append(m.Vertices, GPUVertex{
			Position: [3]float32{0, y, 0},
			Normal:   normal,
			TexCoord: [2]float32{0.5, 0.5},
		})
	}
	ringStart := uint32(len(m.Vertices))
	for x := 0; x <= radial; x++ {
		sin, cos := math32.Sincos(float32(x) / float32(radial) * 2 * math32.Pi)
		m.Vertices = append(m.Vertices, GPUVertex{
			Position: [3]float32{radius * sin, y, radius * cos},
			Normal:   normal,
			TexCoord: [2]float32{sin*0.5 + 0.5, 0.5 - cos*0.5*sign},
		})
	}
	for x := uint32(0); x < uint32(radial); x++ {
		center, i := centerStart+x, ringStart+x
		if top {
			m.Indices = append(m.Indices, i, i+1, center)
		} else {
			m.Indices = append(m.Indices, i+1, i, center)
		}
	}
}

func (c Cone) Key() string {
	return fmt.Sprintf("cone(%g,%g,%d)", c.Radius, c.Height, c.RadialSegments)
}

func (c Cone) BoundingRadius() float32 {
	return c.cylinder().BoundingRadius()
}

func (c Cone) Build() *Mesh {
	return c.cylinder().Build()
}

func (c Cone) cylinder() Cylinder {
	return Cylinder{
		RadiusTop:      0,
		RadiusBottom:   c.Radius,
		Height:         c.Height,
		RadialSegments: c.RadialSegments,
		HeightSegments: 1,
	}
}

func (s Sphere) Key() string {
	return fmt.Sprintf("sphere(%g,%d,%d)", s.Radius, s.WidthSegments, s.HeightSegments)
}

func (s Sphere) BoundingRadius() float32 {
	return s.Radius
}

func (s Sphere) Build() *Mesh {
	cols := max(s.WidthSegments, 3)
	rows := max(s.HeightSegments, 2)

	m := &Mesh{}
	grid := make([][]uint32, rows+1)
	for iy := 0; iy <= rows; iy++ {
		v := float32(iy) / float32(rows)
		sinTheta, cosTheta := math32.Sincos(v * math32.Pi)
		grid[iy] = make([]uint32, cols+1)
		for ix := 0; ix <= cols; ix++ {
			u := float32(ix) / float32(cols)
			sinPhi, cosPhi := math32.Sincos(u * 2 * math32.Pi)
			dir := mgl32.Vec3{-cosPhi * sinTheta, cosTheta, sinPhi * sinTheta}
			grid[iy][ix] = uint32(len(m.Vertices))
			m.Vertices = append(m.Vertices, GPUVertex{
				Position: dir.Mul(s.Radius),
				Normal:   dir,
				TexCoord: [2]float32{u, v},
			})
		}
	}
	for iy := 0; iy < rows; iy++ {
		for ix := 0; ix < cols; ix++ {
			a, b, c, d := grid[iy][ix+1], grid[iy][ix], grid[iy+1][ix], grid[iy+1][ix+1]
			if iy != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if iy != rows-1 {
				m.Indices = append(m.Indices, b, c, d)
			}
		}
	}
	computeTangents(m)
	return m
}

func (p Plane) Key() string {
	return fmt.Sprintf("plane(%g,%g,%d,%d)", p.Width, p.Height, p.WidthSegments, p.HeightSegments)
}

func (p Plane) BoundingRadius() float32 {
	return math32.Sqrt(p.Width*p.Width+p.Height*p.Height) / 2
}

func (p Plane) Build() *Mesh {
	cols := max(p.WidthSegments, 1)
	rows := max(p.HeightSegments, 1)
	segW := p.Width / float32(cols)
	segH := p.Height / float32(rows)

	m := &Mesh{}
	for iy := 0; iy <= rows; iy++ {
		y := float32(iy)*segH - p.Height/2
		for ix := 0; ix <= cols; ix++ {
			x := float32(ix)*segW - p.Width/2
			m.Vertices = append(m.Vertices, GPUVertex{
				Position: [3]float32{x, -y, 0},
				Normal:   [3]float32{0, 0, 1},
				TexCoord: [2]float32{float32(ix) / float32(cols), float32(iy) / float32(rows)},
			})
		}
	}
	stride := uint32(cols + 1)
	for iy := uint32(0); iy < uint32(rows); iy++ {
		for ix := uint32(0); ix < uint32(cols); ix++ {
			a := ix + stride*iy
			b := ix + stride*(iy+1)
			c := ix + 1 + stride*(iy+1)
			d := ix + 1 + stride*iy
			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}
	computeTangents(m)
	return m
}

// computeTangents accumulates per-triangle tangents from positions and UVs and
// orthonormalises them against each vertex normal. Vertices whose UV mapping is
// degenerate fall back to any vector perpendicular to the normal.
func computeTangents(m *Mesh) {
	tan := make([]mgl32.Vec3, len(m.Vertices))
	bitan := make([]mgl32.Vec3, len(m.Vertices))

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]

		e1 := mgl32.Vec3(v1.Position).Sub(v0.Position)
		e2 := mgl32.Vec3(v2.Position).Sub(v0.Position)
		du1, dv1 := v1.TexCoord[0]-v0.TexCoord[0], v1.TexCoord[1]-v0.TexCoord[1]
		du2, dv2 := v2.TexCoord[0]-v0.TexCoord[0], v2.TexCoord[1]-v0.TexCoord[1]

		det := du1*dv2 - du2*dv1
		if math32.Abs(det) < 1e-12 {
			continue
		}
		r := 1 / det
		t := e1.Mul(dv2).Sub(e2.Mul(dv1)).Mul(r)
		b := e2.Mul(du1).Sub(e1.Mul(du2)).Mul(r)
		for _, idx := range [3]uint32{i0, i1, i2} {
			tan[idx] = tan[idx].Add(t)
			bitan[idx] = bitan[idx].Add(b)
		}
	}

	for i := range m.Vertices {
		n := mgl32.Vec3(m.Vertices[i].Normal)
		t := tan[i].Sub(n.Mul(n.Dot(tan[i])))
		if t.Len() < 1e-6 {
			t = perpendicular(n)
		} else {
			t = t.Normalize()
		}
		w := float32(1)
		if n.Cross(t).Dot(bitan[i]) < 0 {
			w = -1
		}
		m.Vertices[i].Tangent = [4]float32{t[0], t[1], t[2], w}
	}
}

func perpendicular(n mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if math32.Abs(n[0]) > 0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return axis.Sub(n.Mul(n.Dot(axis))).Normalize()
}
