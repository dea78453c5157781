package manager

import (
	"time"

	"golang.org/x/sync/errgroup"

	"battlesim_server/pkg/logger"
)

// runSchedulerTick :
// The operation bound to the scheduler's background.Process: fires
// every TickInterval, walks every live battle and steps the ones
// that are due. Battles are independent of one another (each owns
// its own simulator state), so they are stepped concurrently via a
// bounded errgroup rather than sequentially — spec §5 explicitly
// permits parallelizing across battles as long as no single
// simulator's Step is itself parallelized.
func (m *Manager) runSchedulerTick() (bool, error) {
	wallNow := time.Now()

	m.registryMu.RLock()
	battles := make([]*Battle, 0, len(m.battles))
	for _, b := range m.battles {
		battles = append(battles, b)
	}
	m.registryMu.RUnlock()

	var g errgroup.Group
	g.SetLimit(schedulerFanOutLimit)

	for _, b := range battles {
		b := b
		g.Go(func() error {
			m.stepOneBattle(b, wallNow)
			return nil
		})
	}

	// Errors from individual battles never escape stepOneBattle (a
	// StepFailure ends only the offending battle), so g.Wait() here
	// only ever reports whether stepping the pool completed.
	_ = g.Wait()

	return true, nil
}

// schedulerFanOutLimit :
// Bounds how many battles are stepped concurrently within a single
// scheduler firing, the same bounded-worker-pool shape as a
// generator pool sized for a fixed number of workers.
const schedulerFanOutLimit = 8

// stepOneBattle :
// Decides whether a single battle is due for a step this firing
// (always if non-idle, only per the idle-recheck policy otherwise),
// runs it, checks for battle conclusion, and recovers from any panic
// inside Step by ending the battle with StepFailure rather than
// crashing the scheduler — grounded on pkg/background.Process's own
// activeLoop recover() pattern.
func (m *Manager) stepOneBattle(b *Battle, wallNow time.Time) {
	defer func() {
		if r := recover(); r != nil {
			b.mu.Lock()
			if !b.Ended {
				b.finalize(ReasonStepFailure, wallNow)
				m.publishConcluded(b)
			}
			b.mu.Unlock()
			m.log.Trace(logger.Error, "scheduler", errTraceMessage(b.BattleID, r))
		}
	}()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Ended {
		return
	}

	if b.IsIdle && !b.shouldWake(wallNow, m.cfg.IdleCheckInterval) {
		return
	}

	delta := b.step(wallNow)

	m.bus.Publish(Event{
		Type:     EventTick,
		BattleID: b.BattleID,
		SystemID: b.SystemID,
		Payload: TickPayload{
			Tick:         b.Tick,
			Moved:        delta.Moved,
			Damaged:      delta.Damaged,
			Destroyed:    delta.Destroyed,
			WeaponsFired: delta.WeaponsFired,
		},
	})

	if b.sim.IsBattleEnded() {
		b.finalize(ReasonBattleConcluded, wallNow)
		m.publishConcluded(b)
	}
}

// errTraceMessage :
// Formats a panic value recovered from a battle step into a log
// message. A panic value that is neither an error nor a string is
// reported as "unknown panic".
func errTraceMessage(battleID string, r interface{}) string {
	return "recovered from panic while stepping battle " + battleID + ": " + toString(r)
}

func toString(r interface{}) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	if s, ok := r.(string); ok {
		return s
	}
	return "unknown panic"
}
