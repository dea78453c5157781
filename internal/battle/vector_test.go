package battle

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{3, 4, 0}
	require.Equal(t, 5.0, distance(a, b))
}

func TestDirection_NormalizesTowardTarget(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{10, 0, 0}

	d := direction(a, b)
	require.InDelta(t, 1.0, d[0], 1e-9)
	require.InDelta(t, 0.0, d[1], 1e-9)
}

func TestDirection_CoincidentPointsReturnsZero(t *testing.T) {
	p := mgl64.Vec3{5, 5, 5}
	d := direction(p, p)
	require.Equal(t, mgl64.Vec3{0, 0, 0}, d)
}
