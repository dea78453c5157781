package battle

import "time"

// PositionUpdate :
// One entry of an update_positions request: overwrite the position
// of the named unit, optionally clearing its current target.
type PositionUpdate struct {
	ID          int64
	X, Y, Z     float64
	ClearTarget bool
}

// AddUnit :
// Normalizes and inserts a new unit into the battle. Used both when
// a battle starts and when reinforcements arrive. Returns
// ErrDuplicateUnit if a unit with the same id is already present.
// The caller (the manager) is responsible for waking the owning
// battle out of idle mode after this call succeeds.
func (s *Simulator) AddUnit(rec UnitRecord, wallNow time.Time) error {
	if _, exists := s.unitByID(rec.ID); exists {
		return ErrDuplicateUnit
	}

	u := FromRecord(rec)
	Normalize(u, wallNow, s.rng)
	s.insert(u)

	return nil
}

// UpdatePositions :
// Overwrites the position of every listed unit that exists in this
// battle, clearing its target if requested. Returns the number of
// units actually updated; unknown ids are silently skipped, matching
// the teacher's tolerant bulk-update style.
func (s *Simulator) UpdatePositions(updates []PositionUpdate) int {
	count := 0
	for _, upd := range updates {
		if s.UpdateSinglePosition(upd.ID, upd.X, upd.Y, upd.Z, upd.ClearTarget) {
			count++
		}
	}
	return count
}

// UpdateSinglePosition :
// Overwrites a single unit's position, optionally clearing its
// target. Returns false if the unit does not exist in this battle.
func (s *Simulator) UpdateSinglePosition(id int64, x, y, z float64, clearTarget bool) bool {
	u, ok := s.unitByID(id)
	if !ok {
		return false
	}

	u.Pos = [3]float64{x, y, z}
	if clearTarget {
		u.TargetID = nil
	}

	return true
}

// ForceRetarget :
// Clears every unit's current target so the next Step re-runs
// acquisition from scratch. Used when a bulk external position
// change invalidates the spatial premise that targeting relied on.
func (s *Simulator) ForceRetarget() {
	for _, u := range s.units {
		u.TargetID = nil
	}
}
