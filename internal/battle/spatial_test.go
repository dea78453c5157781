package battle

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestCellOf_BucketsByCellSize(t *testing.T) {
	require.Equal(t, cellKey{0, 0, 0}, cellOf(mgl64.Vec3{0, 0, 0}))
	require.Equal(t, cellKey{0, 0, 0}, cellOf(mgl64.Vec3{49, 49, 49}))
	require.Equal(t, cellKey{1, 0, 0}, cellOf(mgl64.Vec3{50, 0, 0}))
	require.Equal(t, cellKey{-1, 0, 0}, cellOf(mgl64.Vec3{-1, 0, 0}))
}

func unitAt(id int64, pos mgl64.Vec3) *Unit {
	return &Unit{ID: id, Alive: true, Pos: pos}
}

func TestSpatialIndex_RebuildAndNearby(t *testing.T) {
	units := []*Unit{
		unitAt(1, mgl64.Vec3{0, 0, 0}),
		unitAt(2, mgl64.Vec3{10, 0, 0}),
		unitAt(3, mgl64.Vec3{1000, 1000, 1000}),
	}

	idx := newSpatialIndex()
	idx.rebuild(units)

	found := idx.nearby(mgl64.Vec3{0, 0, 0}, 60)

	require.Contains(t, found, int64(1))
	require.Contains(t, found, int64(2))
	require.NotContains(t, found, int64(3))
}

func TestSpatialIndex_RebuildExcludesDeadUnits(t *testing.T) {
	dead := unitAt(1, mgl64.Vec3{0, 0, 0})
	dead.Alive = false

	idx := newSpatialIndex()
	idx.rebuild([]*Unit{dead})

	require.Empty(t, idx.nearby(mgl64.Vec3{0, 0, 0}, 100))
}

func TestSpatialIndex_NearbyOrAllFallsBackOnStarvation(t *testing.T) {
	units := make([]*Unit, 0, 3)
	for i := int64(1); i <= 3; i++ {
		units = append(units, unitAt(i, mgl64.Vec3{float64(i) * 1000, 0, 0}))
	}

	idx := newSpatialIndex()
	idx.rebuild(units)

	candidates := idx.nearbyOrAll(mgl64.Vec3{0, 0, 0}, 10, units)

	require.Len(t, candidates, 3)
}

func TestSpatialIndex_NearbyOrAllUsesGridWhenNotStarved(t *testing.T) {
	units := make([]*Unit, 0, 10)
	for i := int64(1); i <= 10; i++ {
		units = append(units, unitAt(i, mgl64.Vec3{0, 0, 0}))
	}
	units = append(units, unitAt(99, mgl64.Vec3{10000, 0, 0}))

	idx := newSpatialIndex()
	idx.rebuild(units)

	candidates := idx.nearbyOrAll(mgl64.Vec3{0, 0, 0}, 10, units)

	require.NotContains(t, candidates, int64(99))
}
