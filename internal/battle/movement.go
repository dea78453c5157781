package battle

import "time"

// moveUnits :
// Advances the position of every alive unit that has a valid target
// outside its optimal range. Stations never move regardless of their
// kinematics. Returns the ids of units whose position changed this
// tick, for delta assembly.
func moveUnits(units []*Unit, byID func(int64) (*Unit, bool), dt time.Duration) []int64 {
	var moved []int64
	step := dt.Seconds()

	for _, u := range units {
		if !u.Alive || u.IsStation || u.TargetID == nil {
			continue
		}

		target, ok := byID(*u.TargetID)
		if !ok || !target.Alive {
			continue
		}

		d := distance(u.Pos, target.Pos)
		optimal := u.MaxOptimalRange()
		if d <= optimal {
			u.Vel = [3]float64{}
			continue
		}

		maxAdvance := u.MaxSpeed * step
		remaining := d - optimal
		advance := maxAdvance
		if remaining < advance {
			advance = remaining
		}
		if advance <= 0 {
			continue
		}

		dir := direction(u.Pos, target.Pos)
		u.Pos = u.Pos.Add(dir.Mul(advance))
		if step > 0 {
			u.Vel = dir.Mul(advance / step)
		}

		moved = append(moved, u.ID)
	}

	return moved
}
