package battle

import "time"

// MovedRecord :
// One unit's new position, emitted for every unit whose position
// changed during the tick.
type MovedRecord struct {
	ID int64
	X  float64
	Y  float64
	Z  float64
}

// DamagedRecord :
// The post-damage hp/shield of a unit hit at least once this tick,
// along with the last attacker to have hit it this tick.
type DamagedRecord struct {
	ID         int64
	HP         float64
	Shield     float64
	AttackerID int64
}

// DestroyedRecord :
// Emitted the tick a unit's hp reaches 0.
type DestroyedRecord struct {
	ID          int64
	DestroyedBy int64
}

// WeaponFiredRecord :
// One weapon discharge resolved this tick.
type WeaponFiredRecord struct {
	AttackerID   int64
	TargetID     int64
	WeaponTag    string
	ImpactTimeMs float64
}

// Delta :
// The outcome of a single Step call. `IsIdle` is true iff this tick
// produced no movement, no damage, no destructions and no weapons
// fired, and the next weapon-ready time lies in the future — i.e.
// nothing happened and nothing can happen again before some known
// point in time.
type Delta struct {
	Moved        []MovedRecord
	Damaged      []DamagedRecord
	Destroyed    []DestroyedRecord
	WeaponsFired []WeaponFiredRecord
	IsIdle       bool
}

// assembleDelta :
// Builds the tick's Delta from the intermediate results of each
// phase of Step.
func assembleDelta(units []*Unit, movedIDs []int64, damaged []DamagedRecord, destroyed []DestroyedRecord, weaponsFired []WeaponFiredRecord, nextWeaponReady time.Time, wallNow time.Time) Delta {
	moved := make([]MovedRecord, 0, len(movedIDs))
	for _, id := range movedIDs {
		for _, u := range units {
			if u.ID == id {
				moved = append(moved, MovedRecord{ID: u.ID, X: u.Pos[0], Y: u.Pos[1], Z: u.Pos[2]})
				break
			}
		}
	}

	idle := len(moved) == 0 && len(damaged) == 0 && len(destroyed) == 0 && len(weaponsFired) == 0 &&
		nextWeaponReady.After(wallNow)

	return Delta{
		Moved:        moved,
		Damaged:      damaged,
		Destroyed:    destroyed,
		WeaponsFired: weaponsFired,
		IsIdle:       idle,
	}
}

// computeNextWeaponReady :
// Returns the earliest time at which any alive, armed unit's weapon
// will next become ready to fire. Used both for delta.IsIdle and by
// the manager to decide when an idle battle should be woken.
func (s *Simulator) computeNextWeaponReady() time.Time {
	var earliest time.Time

	for _, u := range s.units {
		if !u.Alive {
			continue
		}
		for _, w := range u.Weapons {
			ready := w.LastFired.Add(w.Cooldown)
			if earliest.IsZero() || ready.Before(earliest) {
				earliest = ready
			}
		}
	}

	return earliest
}

// ActiveFactions :
// Returns the set of faction ids with at least one alive unit.
func (s *Simulator) ActiveFactions() map[int64]struct{} {
	factions := make(map[int64]struct{})
	for _, u := range s.units {
		if u.Alive {
			factions[u.FactionID] = struct{}{}
		}
	}
	return factions
}

// IsBattleEnded :
// True iff at most one faction still has an alive unit.
func (s *Simulator) IsBattleEnded() bool {
	return len(s.ActiveFactions()) <= 1
}

// NextWeaponReadyTime :
// Returns the last value computed by Step for the earliest time any
// alive unit's weapon becomes ready again. Zero until the first Step
// call.
func (s *Simulator) NextWeaponReadyTime() time.Time {
	return s.nextWeaponReady
}

// UnitPositions :
// Returns the current position of every unit, alive or dead, for
// debugging and state-dump purposes.
func (s *Simulator) UnitPositions() []MovedRecord {
	out := make([]MovedRecord, 0, len(s.units))
	for _, u := range s.units {
		out = append(out, MovedRecord{ID: u.ID, X: u.Pos[0], Y: u.Pos[1], Z: u.Pos[2]})
	}
	return out
}

// UnitCount :
// Returns the total number of units currently tracked by the
// simulator, alive or dead.
func (s *Simulator) UnitCount() int {
	return len(s.units)
}

// Results :
// Returns a final snapshot of every unit, intended to be called only
// after IsBattleEnded() is true. Survivors and casualties can be
// derived from the Alive flag of each returned unit.
func (s *Simulator) Results() []*Unit {
	out := make([]*Unit, len(s.units))
	copy(out, s.units)
	return out
}
