package placement

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource replays values in order, cycling when exhausted.
type fixedSource struct {
	values []float64
	next   int
}

func (f *fixedSource) Float64() float64 {
	v := f.values[f.next%len(f.values)]
	f.next++
	return v
}

func TestCrystalsStayOnTheRing(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		crystals := Crystals(NewSource(seed), 50)
		require.Len(t, crystals, 50)
		for _, c := range crystals {
			assert.GreaterOrEqual(t, c.Angle, 0.0)
			assert.Less(t, c.Angle, 2*math.Pi)
			assert.GreaterOrEqual(t, c.Radius, 3.0)
			assert.Less(t, c.Radius, 10.0)
			assert.GreaterOrEqual(t, c.Position.Y(), float32(-1.5))
			assert.Less(t, c.Position.Y(), float32(-1.0))
			assert.Equal(t, 2*c.Scale.X(), c.Scale.Y())
			assert.Equal(t, c.Scale.X(), c.Scale.Z())

			if c.Big {
				assert.GreaterOrEqual(t, c.Scale.X(), float32(2))
				assert.Less(t, c.Scale.X(), float32(4))
			} else {
				assert.GreaterOrEqual(t, c.Scale.X(), float32(0.5))
				assert.Less(t, c.Scale.X(), float32(1.5))
			}

			horizontal := math.Hypot(float64(c.Position.X()), float64(c.Position.Z()))
			assert.InDelta(t, c.Radius, horizontal, 1e-4)
		}
	}
}

func TestBigCrystalFraction(t *testing.T) {
	crystals := Crystals(NewSource(42), 5000)
	big := 0
	for _, c := range crystals {
		if c.Big {
			big++
		}
	}
	assert.InDelta(t, 0.1, float64(big)/float64(len(crystals)), 0.05)
}

func TestCrystalDrawOrder(t *testing.T) {
	// angle, radius, height, rotation, big roll, scale
	src := &fixedSource{values: []float64{0.25, 0.5, 0.5, 0.5, 0.05, 0.5}}
	c := Crystals(src, 1)[0]

	assert.InDelta(t, math.Pi/2, c.Angle, 1e-12)
	assert.InDelta(t, 6.5, c.Radius, 1e-12)
	assert.InDelta(t, 0, c.Position.X(), 1e-5)
	assert.InDelta(t, 6.5, c.Position.Z(), 1e-5)
	assert.Equal(t, float32(-1.25), c.Position.Y())
	assert.InDelta(t, math.Pi, c.Rotation.Y(), 1e-5)
	assert.True(t, c.Big)
	assert.Equal(t, mgl32.Vec3{3, 6, 3}, c.Scale)
}

func TestFirefliesStayInTheBox(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		flies := Fireflies(NewSource(seed), 50)
		require.Len(t, flies, 50)
		for _, f := range flies {
			for _, v := range []float32{f.Position.X(), f.Position.Z()} {
				assert.GreaterOrEqual(t, v, float32(-10))
				assert.Less(t, v, float32(10))
			}
			assert.GreaterOrEqual(t, f.Position.Y(), float32(0))
			assert.Less(t, f.Position.Y(), float32(5))
		}
	}
}

func TestZeroCounts(t *testing.T) {
	src := NewSource(7)
	assert.Empty(t, Crystals(src, 0))
	assert.Empty(t, Fireflies(src, 0))
	assert.Empty(t, Crystals(src, -3))
}

func TestBranchesAreFixed(t *testing.T) {
	a, b := Branches(), Branches()
	require.Len(t, a, 4)
	assert.Equal(t, a, b)

	a[0].Position[0] = 99
	assert.Equal(t, float32(0.1), Branches()[0].Position.X(), "callers get a fresh copy")

	assert.Equal(t, mgl32.Vec3{-0.5, 4, 0.3}, b[3].Position)
	assert.Equal(t, mgl32.Vec3{-0.1, 4, -0.5}, b[3].Rotation)
}

func TestFoliageLayout(t *testing.T) {
	zero := &fixedSource{values: []float64{0}}
	foliage := Foliage(zero)
	require.Len(t, foliage, 18)

	assert.Equal(t, mgl32.Vec3{0, 6.5, 0}, foliage[0].Position)
	assert.Equal(t, mgl32.Vec3{1.5, 1.5, 1.5}, foliage[0].Scale)
	assert.Equal(t, mgl32.Vec3{1.2, 1.2, 1.2}, foliage[10].Scale)
	for _, small := range foliage[12:] {
		assert.Equal(t, mgl32.Vec3{-1, 7.1, -1}, small.Position)
		assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.5}, small.Scale)
	}
}

func TestFoliageJitterBounds(t *testing.T) {
	fixed := make([]cluster, 0, 12)
	fixed = append(fixed, largeFoliage...)
	fixed = append(fixed, mediumFoliage...)

	foliage := Foliage(NewSource(3))
	for i, f := range foliage[:12] {
		d := f.Position.Sub(fixed[i].position.Add(FoliageOffset))
		for axis := range 3 {
			assert.GreaterOrEqual(t, d[axis], float32(-1e-5))
			assert.Less(t, d[axis], float32(0.5)+1e-5)
		}
	}
	for _, f := range foliage[12:] {
		assert.GreaterOrEqual(t, f.Position.Y(), float32(3.6+3.5))
		assert.Less(t, f.Position.Y(), float32(4.6+3.5))
	}
}

func TestSeededSourceIsReproducible(t *testing.T) {
	assert.Equal(t, Crystals(NewSource(11), 10), Crystals(NewSource(11), 10))
	assert.NotEqual(t, Fireflies(NewSource(11), 10), Fireflies(NewSource(12), 10))
}

// nearOne is the largest value a Source may return.
var nearOne = math.Nextafter(1, 0)

func TestUpperBoundsStayOpen(t *testing.T) {
	fly := Fireflies(&fixedSource{values: []float64{nearOne}}, 1)[0]
	assert.Less(t, fly.Position.X(), float32(10))
	assert.Less(t, fly.Position.Y(), float32(5))
	assert.Less(t, fly.Position.Z(), float32(10))

	small := Crystals(&fixedSource{values: []float64{nearOne}}, 1)[0]
	assert.False(t, small.Big)
	assert.Less(t, small.Position.Y(), float32(-1))
	assert.GreaterOrEqual(t, small.Position.Y(), float32(-1.5))
	assert.Less(t, small.Scale.X(), float32(1.5))
	assert.Equal(t, 2*small.Scale.X(), small.Scale.Y())

	// angle, radius, height, rotation, big roll, scale
	big := Crystals(&fixedSource{values: []float64{nearOne, nearOne, nearOne, nearOne, 0, nearOne}}, 1)[0]
	assert.True(t, big.Big)
	assert.Less(t, big.Scale.X(), float32(4))
	assert.Equal(t, 2*big.Scale.X(), big.Scale.Y())

	foliage := Foliage(&fixedSource{values: []float64{nearOne}})
	for _, f := range foliage[12:] {
		assert.Less(t, f.Position.Y(), float32(4.6+3.5))
		assert.Less(t, f.Position.X(), float32(1.5))
	}
}
