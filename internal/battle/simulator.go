package battle

import (
	"math/rand"
	"time"
)

// Simulator :
// Owns one battle's units, weapons state, spatial index, and derived
// aggregates. It is a pure-ish state machine: Step is the only
// operation that advances time, and is a deterministic function of
// the current state plus (dt, wallNow) given the same RNG seed used
// at construction — the sole source of randomness is the initial
// per-weapon `last_fired` stagger drawn when units are normalized.
//
// Units are stored as a dense slice indexed by a stable internal
// index, with `index` mapping external unit ids to slice positions.
// This keeps per-tick iteration cache-friendly at several thousand
// units, unlike a map-keyed table.
type Simulator struct {
	units []*Unit
	index map[int64]int
	grid  *spatialIndex
	rng   *rand.Rand

	nextWeaponReady time.Time
}

// NewSimulator :
// Creates an empty simulator seeded with the given RNG seed. The
// seed governs only the stagger applied to a unit's weapons the
// first time it is normalized (at construction or reinforcement);
// everything else about a Step is deterministic given its inputs.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{
		units: make([]*Unit, 0),
		index: make(map[int64]int),
		grid:  newSpatialIndex(),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// unitByID :
// Looks up a unit by its external id via the dense table's index.
func (s *Simulator) unitByID(id int64) (*Unit, bool) {
	idx, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.units[idx], true
}

// insert :
// Appends a unit to the dense table and registers it in the id
// index. Callers must ensure the id is not already present.
func (s *Simulator) insert(u *Unit) {
	s.index[u.ID] = len(s.units)
	s.units = append(s.units, u)
}

// Step :
// Advances the battle by dt seconds as of wallNow, in the mandated
// order: spatial rebuild → targeting → movement → firing and damage
// → shield regeneration → delta assembly. This order is observable:
// a unit present in `damaged` is guaranteed still alive that tick
// unless it also appears in `destroyed`.
func (s *Simulator) Step(dt time.Duration, wallNow time.Time) Delta {
	s.grid.rebuild(s.units)

	acquireTargets(s.units, s.unitByID, s.grid)

	moved := moveUnits(s.units, s.unitByID, dt)

	damaged, destroyed, weaponsFired := resolveFiring(s.units, s.unitByID, wallNow)

	regenShields(s.units, dt)

	s.nextWeaponReady = s.computeNextWeaponReady()

	delta := assembleDelta(s.units, moved, damaged, destroyed, weaponsFired, s.nextWeaponReady, wallNow)

	return delta
}
