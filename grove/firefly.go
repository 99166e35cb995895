package grove

import (
	"github.com/Carmen-Shannon/mystic-grove/engine/game_object"
	"github.com/chewxy/math32"
)

// Firefly is an animated firefly object. Index is its fixed phase offset.
type Firefly struct {
	Object game_object.GameObject
	Index  int
}

// UpdateFireflies moves every firefly for elapsed time t. The x and z drift
// accumulates across calls while y is recomputed from t alone.
//
// Parameters:
//   - flies: the fireflies to move
//   - t: seconds since the session started
func UpdateFireflies(flies []Firefly, t float32) {
	for _, f := range flies {
		if f.Object == nil {
			continue
		}
		phase := float32(f.Index)
		p := f.Object.Position()
		p[0] += math32.Sin(t*0.3+phase) * 0.01
		p[2] += math32.Cos(t*0.3+phase) * 0.01
		p[1] = math32.Abs(math32.Sin(t*2 + phase))
		f.Object.SetPosition(p)
	}
}
