// Package placement computes where the grove's repeated decorations go: foliage
// clusters, crystals, fireflies and branches. It only returns data; building objects
// from it is the assembler's job.
package placement

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Source yields uniform random numbers in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

var _ Source = (*rand.Rand)(nil)

// NewSource returns a PCG-backed Source. Seed 0 seeds from the clock.
//
// Parameters:
//   - seed: the PCG seed, or 0 for a time-based seed
//
// Returns:
//   - Source: the random source
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Placement is the transform of one decoration.
type Placement struct {
	Position mgl32.Vec3
	// Rotation is XYZ Euler angles in radians.
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// CrystalPlacement keeps the polar parameters a crystal was placed with.
type CrystalPlacement struct {
	Placement
	Angle  float64
	Radius float64
	Big    bool
}

const (
	// CrystalMinRadius and CrystalRadiusRange bound the crystal ring.
	CrystalMinRadius   = 3.0
	CrystalRadiusRange = 7.0
	// CrystalBaseHeight is the lowest crystal base; bases lie in [base, base+0.5).
	CrystalBaseHeight = -1.5
	// BigCrystalChance is the probability a crystal is drawn from the big scale range.
	BigCrystalChance = 0.1

	// FireflySpread is the edge length of the square the fireflies start in.
	FireflySpread = 20.0
	// FireflyCeiling is the highest starting firefly height.
	FireflyCeiling = 5.0

	smallFoliageCount = 6
	// Small clusters start in [smallFoliageBase, smallFoliageBase+foliageBand) on y
	// before jitter.
	smallFoliageBase = 3.6
	foliageBand      = 0.5
)

// FoliageOffset is where the foliage cluster sits relative to the world origin.
var FoliageOffset = mgl32.Vec3{0, 3.5, 0}

type cluster struct {
	scale    float32
	position mgl32.Vec3
}

var (
	largeFoliage = []cluster{
		{1.5, mgl32.Vec3{0, 3, 0}},
		{1.2, mgl32.Vec3{1, 1.5, 0.8}},
		{1.2, mgl32.Vec3{-1, 1.5, 0.8}},
		{1.7, mgl32.Vec3{1, 3, 0.5}},
		{1.7, mgl32.Vec3{-1, 3, 0.5}},
		{1.7, mgl32.Vec3{-1, 4, -1}},
	}
	mediumFoliage = []cluster{
		{0.8, mgl32.Vec3{0.3, 2, -0.4}},
		{0.8, mgl32.Vec3{-0.6, 2, -0.6}},
		{0.7, mgl32.Vec3{0.4, 2, 0.4}},
		{0.7, mgl32.Vec3{-0.4, 2, -0.4}},
		{1.2, mgl32.Vec3{-0.4, 2, -1.6}},
		{1.2, mgl32.Vec3{1, 2.3, -1.6}},
	}
)

func uniform(s float32) mgl32.Vec3 {
	return mgl32.Vec3{s, s, s}
}

// below narrows v to float32 while keeping it strictly under bound. Rounding to the
// nearest float32 can otherwise land a value drawn from [lo, bound) on bound itself.
func below(v float64, bound float32) float32 {
	return min(float32(v), math.Nextafter32(bound, -math.MaxFloat32))
}

func r32(src Source) float32 {
	return below(src.Float64(), 1)
}

// Foliage returns the large and medium hand-placed clusters followed by six small
// random ones. Every cluster is then nudged up to 0.5 along y, x and z, in that draw
// order, and FoliageOffset is added.
//
// Parameters:
//   - src: the random source
//
// Returns:
//   - []Placement: 18 world-space placements
func Foliage(src Source) []Placement {
	out := make([]Placement, 0, len(largeFoliage)+len(mediumFoliage)+smallFoliageCount)
	for _, tier := range [][]cluster{largeFoliage, mediumFoliage} {
		for _, c := range tier {
			out = append(out, Placement{Position: c.position, Scale: uniform(c.scale)})
		}
	}
	for range smallFoliageCount {
		x := (r32(src) - 0.5) * 2
		y := below(smallFoliageBase+src.Float64()*foliageBand, smallFoliageBase+foliageBand)
		z := (r32(src) - 0.5) * 2
		out = append(out, Placement{Position: mgl32.Vec3{x, y, z}, Scale: uniform(0.5)})
	}
	smallTop := float32(smallFoliageBase + 2*foliageBand + float64(FoliageOffset.Y()))
	for i := range out {
		p := &out[i].Position
		p[1] += r32(src) * foliageBand
		p[0] += r32(src) * foliageBand
		p[2] += r32(src) * foliageBand
		*p = p.Add(FoliageOffset)
		if i >= len(largeFoliage)+len(mediumFoliage) {
			p[1] = below(float64(p[1]), smallTop)
		}
	}
	return out
}

// Crystals scatters n crystals on a ring around the tree. One in ten, on average, is
// drawn from the big scale range [2, 4) instead of [0.5, 1.5). Every crystal is twice
// as tall as it is wide.
//
// Parameters:
//   - src: the random source
//   - n: number of crystals; non-positive yields none
//
// Returns:
//   - []CrystalPlacement: the placements
func Crystals(src Source, n int) []CrystalPlacement {
	out := make([]CrystalPlacement, 0, max(n, 0))
	for range max(n, 0) {
		angle := src.Float64() * 2 * math.Pi
		radius := CrystalMinRadius + src.Float64()*CrystalRadiusRange
		y := CrystalBaseHeight + src.Float64()*0.5
		rotY := src.Float64() * 2 * math.Pi
		big := src.Float64() < BigCrystalChance
		var scale float32
		if big {
			scale = below(2+src.Float64()*2, 4)
		} else {
			scale = below(0.5+src.Float64(), 1.5)
		}

		out = append(out, CrystalPlacement{
			Placement: Placement{
				Position: mgl32.Vec3{
					float32(math.Cos(angle) * radius),
					below(y, CrystalBaseHeight+0.5),
					float32(math.Sin(angle) * radius),
				},
				Rotation: mgl32.Vec3{0, float32(rotY), 0},
				Scale:    mgl32.Vec3{scale, 2 * scale, scale},
			},
			Angle:  angle,
			Radius: radius,
			Big:    big,
		})
	}
	return out
}

// Fireflies places n fireflies in a 20×20 square around the origin, up to 5 high.
//
// Parameters:
//   - src: the random source
//   - n: number of fireflies; non-positive yields none
//
// Returns:
//   - []Placement: the placements, with unit scale
func Fireflies(src Source, n int) []Placement {
	out := make([]Placement, 0, max(n, 0))
	for range max(n, 0) {
		x := below((src.Float64()-0.5)*FireflySpread, FireflySpread/2)
		y := below(src.Float64()*FireflyCeiling, FireflyCeiling)
		z := below((src.Float64()-0.5)*FireflySpread, FireflySpread/2)
		out = append(out, Placement{
			Position: mgl32.Vec3{x, y, z},
			Scale:    uniform(1),
		})
	}
	return out
}

// Branches returns the four fixed branch transforms. The result is a fresh slice.
//
// Returns:
//   - []Placement: the branch placements
func Branches() []Placement {
	return []Placement{
		{Position: mgl32.Vec3{0.1, 4.04, 0.5}, Rotation: mgl32.Vec3{0.7, 0.2, 0}, Scale: uniform(1)},
		{Position: mgl32.Vec3{-0.3, 4, -0.5}, Rotation: mgl32.Vec3{-0.8, 1, 0.4}, Scale: uniform(1)},
		{Position: mgl32.Vec3{0.5, 4.8, -0.5}, Rotation: mgl32.Vec3{-0.3, 3.6, 0.5}, Scale: uniform(1)},
		{Position: mgl32.Vec3{-0.5, 4, 0.3}, Rotation: mgl32.Vec3{-0.1, 4, -0.5}, Scale: uniform(1)},
	}
}
