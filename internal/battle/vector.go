package battle

import "github.com/go-gl/mathgl/mgl64"

// distance :
// Returns the euclidean distance between two points. Thin wrapper
// around mgl64 so that callers never hand-roll `dx,dy,dz` math.
func distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// direction :
// Returns the unit vector pointing from `from` towards `to`. If the
// two points coincide, the zero vector is returned instead of NaN.
func direction(from, to mgl64.Vec3) mgl64.Vec3 {
	delta := to.Sub(from)
	if delta.Len() == 0 {
		return mgl64.Vec3{}
	}
	return delta.Normalize()
}
