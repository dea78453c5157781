package manager

import (
	"sync"
	"time"

	"battlesim_server/internal/battle"
)

// Results :
// The final snapshot of a concluded battle: the set of units still
// alive at the moment of conclusion (`Survivors`), the set that died
// (`Casualties`), the sole remaining faction if any (`Victor`), and
// the reason the battle ended.
type Results struct {
	Survivors  []int64
	Casualties []int64
	Victor     *int64
	Reason     string
	TotalTicks int64
	DurationMs int64
}

// Battle :
// Wraps a single battle's simulator together with the bookkeeping
// the manager needs to schedule it: tick counter, idle tracking, and
// wall-clock timestamps used for the timeout policy. Ingress
// operations (reinforcements, position updates, retarget, stop) are
// serialized against Step calls through `mu`, grounded on the
// teacher's `internal/locker.ConcurrentLocker` lock-per-resource idea
// but simplified to a single mutex per battle since our battle count
// is dynamic and unbounded, unlike the teacher's fixed lock pool.
//
// The `LastDamageTime` is only advanced when a step actually dealt
// damage or destroyed a unit; it backs the stalemate timeout, which
// must use wall time rather than tick count so that idle mode (which
// can suspend ticks indefinitely) cannot mask a stalemate.
type Battle struct {
	mu sync.Mutex

	BattleID string
	SystemID string
	sim      *battle.Simulator

	Tick int64

	StartTime        time.Time
	LastTickTime     time.Time
	LastDamageTime   time.Time
	LastTimeoutCheck time.Time

	IsIdle         bool
	IdleCheckCount int64
	NextIdleCheck  time.Time

	Ended     bool
	EndedAt   time.Time
	Results   *Results
}

// newBattle :
// Constructs a live Battle wrapper around a freshly-seeded simulator.
func newBattle(battleID, systemID string, sim *battle.Simulator, wallNow time.Time) *Battle {
	return &Battle{
		BattleID:         battleID,
		SystemID:         systemID,
		sim:              sim,
		StartTime:        wallNow,
		LastTickTime:     wallNow,
		LastDamageTime:   wallNow,
		LastTimeoutCheck: wallNow,
	}
}

// step :
// Runs one simulator step for this battle, updates tick bookkeeping,
// and records whether damage was dealt (for the stalemate timeout).
// Must be called with `mu` held.
func (b *Battle) step(wallNow time.Time) battle.Delta {
	dt := wallNow.Sub(b.LastTickTime)
	if dt < 0 {
		dt = 0
	}

	delta := b.sim.Step(dt, wallNow)

	b.Tick++
	b.LastTickTime = wallNow
	if len(delta.Damaged) > 0 || len(delta.Destroyed) > 0 {
		b.LastDamageTime = wallNow
	}

	b.IsIdle = delta.IsIdle
	if b.IsIdle {
		b.IdleCheckCount++
	} else {
		b.IdleCheckCount = 0
	}

	return delta
}

// shouldWake :
// Reports whether an idle battle should be stepped again: either the
// idle recheck interval has elapsed, or the simulator's own next
// weapon-ready time has arrived.
func (b *Battle) shouldWake(wallNow time.Time, idleCheckInterval time.Duration) bool {
	if wallNow.Sub(b.LastTickTime) >= idleCheckInterval {
		return true
	}
	next := b.sim.NextWeaponReadyTime()
	return !next.IsZero() && !wallNow.Before(next)
}

// finalize :
// Marks the battle ended with the given reason and snapshots its
// final results. Idempotent: a second call is a no-op, matching the
// finalization contract.
func (b *Battle) finalize(reason string, wallNow time.Time) {
	if b.Ended {
		return
	}

	b.Ended = true
	b.EndedAt = wallNow

	units := b.sim.Results()
	survivors := make([]int64, 0)
	casualties := make([]int64, 0)
	factions := make(map[int64]struct{})

	for _, u := range units {
		if u.Alive {
			survivors = append(survivors, u.ID)
			factions[u.FactionID] = struct{}{}
		} else {
			casualties = append(casualties, u.ID)
		}
	}

	var victor *int64
	if len(factions) == 1 {
		for f := range factions {
			v := f
			victor = &v
		}
	}

	b.Results = &Results{
		Survivors:  survivors,
		Casualties: casualties,
		Victor:     victor,
		Reason:     reason,
		TotalTicks: b.Tick,
		DurationMs: wallNow.Sub(b.StartTime).Milliseconds(),
	}
}
