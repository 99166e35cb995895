package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestFrustumIntersectsSphere(t *testing.T) {
	var view, proj, viewProj [16]float32
	LookAt(view[:], mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	Perspective(proj[:], float32(math.Pi/3), 1, 0.1, 100)
	Mul4(viewProj[:], proj[:], view[:])

	f := ExtractFrustumFromMatrix(viewProj[:])

	tests := []struct {
		name   string
		center mgl32.Vec3
		radius float32
		want   bool
	}{
		{"origin", mgl32.Vec3{}, 1, true},
		{"behind camera", mgl32.Vec3{0, 0, 20}, 1, false},
		{"beyond far plane", mgl32.Vec3{0, 0, -200}, 1, false},
		{"far to the side", mgl32.Vec3{100, 0, 0}, 1, false},
		{"straddling the left plane", mgl32.Vec3{-6, 0, 0}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IntersectsSphere(tt.center, tt.radius))
		})
	}
}

func TestFrustumPlanesAreNormalized(t *testing.T) {
	var proj [16]float32
	Perspective(proj[:], 1.2, 1.6, 0.1, 50)
	f := ExtractFrustumFromMatrix(proj[:])
	for i, p := range f.Planes {
		assert.InDelta(t, 1, p.Normal.Len(), 1e-5, "plane %d", i)
	}
}
