package battle

import (
	"math/rand"
	"strings"
	"time"
)

// stationKeywords :
// Case-insensitive substrings of `unit_type` that classify a unit as
// a station when neither `IsShip` nor `IsStation` was supplied.
var stationKeywords = []string{"station", "outpost", "platform"}

// looksLikeStation :
// Returns true if `unitType` contains one of the station keywords,
// regardless of case.
func looksLikeStation(unitType string) bool {
	lower := strings.ToLower(unitType)
	for _, kw := range stationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Normalize :
// Makes an externally-supplied unit internally consistent before it
// participates in simulation. Normalization is total: there is no
// error condition, and ambiguous classifications default to ship.
// Applying Normalize twice to the same unit is a no-op, since every
// step either leaves an already-set value untouched or recomputes a
// value that is already consistent.
//
// The `rng` supplies the uniform draw used to stagger each weapon's
// `last_fired` so that a freshly constructed unit does not discharge
// every weapon in lockstep with every other unit loaded at the same
// time. Pass a seeded `*rand.Rand` to get deterministic, reproducible
// staggering across runs.
//
// The `wallNow` is the wall-clock time at which this unit joins the
// simulation.
func Normalize(u *Unit, wallNow time.Time, rng *rand.Rand) {
	if !u.HasWeapons && len(u.Weapons) > 0 {
		u.HasWeapons = true
	}

	if u.MaxWeaponRange <= 0 {
		u.MaxWeaponRange = 0
		for _, w := range u.Weapons {
			if w.MaxRange > u.MaxWeaponRange {
				u.MaxWeaponRange = w.MaxRange
			}
		}
	}

	if !u.IsShip && !u.IsStation {
		if looksLikeStation(u.UnitType) {
			u.IsStation = true
		} else {
			u.IsShip = true
		}
	}

	for _, w := range u.Weapons {
		if w.LastFired.IsZero() && w.Cooldown > 0 {
			r := rng.Float64()
			offset := time.Duration(r * float64(w.Cooldown))
			w.LastFired = wallNow.Add(-offset)
		}
	}

	u.Alive = u.HP > 0
}
