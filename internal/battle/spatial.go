package battle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// cellSize :
// The edge length of a single grid cell used by the spatial index.
// Chosen so that a typical weapon range spans a handful of cells
// rather than hundreds of them.
const cellSize = 50.0

// cellKey :
// Identifies a single cell of the uniform grid by its integer
// coordinates. Mirrors a chunk-position key in a voxel world: the
// grid never stores the cell objects themselves, only the set of
// unit ids currently located in each one.
type cellKey struct {
	x, y, z int
}

// cellOf :
// Returns the cell key containing the given point.
func cellOf(p mgl64.Vec3) cellKey {
	return cellKey{
		x: int(math.Floor(p[0] / cellSize)),
		y: int(math.Floor(p[1] / cellSize)),
		z: int(math.Floor(p[2] / cellSize)),
	}
}

// spatialIndex :
// A uniform grid keyed by integer cell coordinates, used to prefilter
// candidates for ranged neighbor queries in amortized sublinear time.
// The index reflects unit positions as of the start of the current
// tick; it is rebuilt once per tick before targeting runs and is not
// updated again until the next rebuild, even though movement may
// change positions within the same tick.
type spatialIndex struct {
	cells map[cellKey][]int64
}

// newSpatialIndex :
// Creates an empty spatial index.
func newSpatialIndex() *spatialIndex {
	return &spatialIndex{cells: make(map[cellKey][]int64)}
}

// rebuild :
// Clears the index and re-populates it from the current positions of
// every alive unit. Called once per tick, before targeting.
func (s *spatialIndex) rebuild(units []*Unit) {
	for k := range s.cells {
		delete(s.cells, k)
	}

	for _, u := range units {
		if !u.Alive {
			continue
		}
		key := cellOf(u.Pos)
		s.cells[key] = append(s.cells[key], u.ID)
	}
}

// nearby :
// Enumerates the ids of units whose cell lies in the neighborhood
// needed to cover a query of the given radius around center. This is
// a coarse prefilter: callers MUST apply exact distance filtering to
// the returned candidates, since every unit whose cell falls in the
// neighborhood is returned regardless of its exact position in it.
func (s *spatialIndex) nearby(center mgl64.Vec3, radius float64) []int64 {
	cellsNeeded := int(math.Ceil(radius/cellSize)) + 1
	origin := cellOf(center)

	var ids []int64
	for dx := -cellsNeeded; dx <= cellsNeeded; dx++ {
		for dy := -cellsNeeded; dy <= cellsNeeded; dy++ {
			for dz := -cellsNeeded; dz <= cellsNeeded; dz++ {
				key := cellKey{origin.x + dx, origin.y + dy, origin.z + dz}
				ids = append(ids, s.cells[key]...)
			}
		}
	}

	return ids
}

// starvationThreshold :
// The minimum number of candidates `nearby` must return before we
// trust it over a linear scan. Below this count, grid-cell starvation
// at large weapon ranges could otherwise make targeting fail to find
// candidates that are in fact in range.
const starvationThreshold = 5

// nearbyOrAll :
// Wraps `nearby` with the mandated linear-scan fallback: if the grid
// prefilter starves (returns fewer than `starvationThreshold`
// candidates), every alive unit is returned instead so that callers
// can still find valid candidates via exact distance filtering.
func (s *spatialIndex) nearbyOrAll(center mgl64.Vec3, radius float64, all []*Unit) []int64 {
	candidates := s.nearby(center, radius)
	if len(candidates) >= starvationThreshold {
		return candidates
	}

	ids := make([]int64, 0, len(all))
	for _, u := range all {
		if u.Alive {
			ids = append(ids, u.ID)
		}
	}
	return ids
}
