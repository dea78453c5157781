package battle

// validTarget :
// Reports whether holder's current target_id still refers to a
// usable target: the target must exist, be alive, belong to a
// different faction, lie within the holder's max_weapon_range, and
// be damageable by at least one of the holder's weapons.
func validTarget(holder *Unit, target *Unit) bool {
	if target == nil || !target.Alive {
		return false
	}
	if target.FactionID == holder.FactionID {
		return false
	}
	if distance(holder.Pos, target.Pos) > holder.MaxWeaponRange {
		return false
	}
	return canDamageAny(holder, target.Armor)
}

// canDamageAny :
// Reports whether at least one of holder's weapons can damage a
// target with the given armor value.
func canDamageAny(holder *Unit, targetArmor float64) bool {
	for _, w := range holder.Weapons {
		if w.CanDamage(targetArmor) {
			return true
		}
	}
	return false
}

// scoreCandidate :
// Scores a targeting candidate. Monotone non-increasing in distance
// within max_weapon_range, and deliberately free of any additional
// weighting against stations or unarmed ships: the source's station-
// targeting bug came from exactly such a weighting, which let nearby
// armed threats mask a station sitting right next to them. Scoring
// purely by proximity guarantees a station is picked whenever it is
// simply the closest valid enemy.
func scoreCandidate(dist float64) float64 {
	return -dist
}

// bestCandidate :
// Picks the highest-scoring candidate among ids, breaking ties by
// the lowest unit id. Returns the winning unit and true, or (nil,
// false) if ids is empty.
func bestCandidate(holder *Unit, ids []int64, byID func(int64) (*Unit, bool)) (*Unit, bool) {
	var best *Unit
	bestScore := 0.0

	for _, id := range ids {
		candidate, ok := byID(id)
		if !ok || candidate.ID == holder.ID {
			continue
		}
		if candidate.FactionID == holder.FactionID || !candidate.Alive {
			continue
		}
		if !canDamageAny(holder, candidate.Armor) {
			continue
		}

		d := distance(holder.Pos, candidate.Pos)
		if d > holder.MaxWeaponRange {
			continue
		}

		score := scoreCandidate(d)

		switch {
		case best == nil:
			best = candidate
			bestScore = score
		case score > bestScore:
			best = candidate
			bestScore = score
		case score == bestScore && candidate.ID < best.ID:
			best = candidate
		}
	}

	return best, best != nil
}

// acquireTargets :
// Ensures every armed, alive unit has a valid target whenever one is
// reachable. Existing targets are revalidated first and cleared if
// stale; units lacking a valid target query the spatial index (with
// the mandated linear-scan fallback on starvation) and pick the best
// scoring enemy candidate.
func acquireTargets(units []*Unit, byID func(int64) (*Unit, bool), grid *spatialIndex) {
	for _, u := range units {
		if !u.Alive || !u.HasWeapons {
			continue
		}

		if u.TargetID != nil {
			target, ok := byID(*u.TargetID)
			if !ok || !validTarget(u, target) {
				u.TargetID = nil
			}
		}

		if u.TargetID != nil {
			continue
		}

		candidateIDs := grid.nearbyOrAll(u.Pos, u.MaxWeaponRange, units)
		best, ok := bestCandidate(u, candidateIDs, byID)
		if ok {
			id := best.ID
			u.TargetID = &id
		}
	}
}
