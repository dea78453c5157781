package manager

import (
	"fmt"
	"time"
)

// runTimeoutCheck :
// The operation bound to the timeout checker's background.Process.
// Fires every TimeoutCheckInterval and evaluates two wall-clock
// conditions against every live battle: the absolute maximum duration
// and the stalemate window. Independently, it purges any battle that
// concluded more than RetentionWindow ago so the registry does not
// grow without bound across a long-running process.
func (m *Manager) runTimeoutCheck() (bool, error) {
	wallNow := time.Now()

	m.registryMu.RLock()
	battles := make([]*Battle, 0, len(m.battles))
	for _, b := range m.battles {
		battles = append(battles, b)
	}
	m.registryMu.RUnlock()

	var toPurge []string

	for _, b := range battles {
		b.mu.Lock()

		if b.Ended {
			if wallNow.Sub(b.EndedAt) >= m.cfg.RetentionWindow {
				toPurge = append(toPurge, b.BattleID)
			}
			b.mu.Unlock()
			continue
		}

		b.LastTimeoutCheck = wallNow

		switch {
		case wallNow.Sub(b.StartTime) >= m.cfg.MaxDuration:
			b.finalize(fmt.Sprintf(ReasonMaxDuration, minutes(m.cfg.MaxDuration)), wallNow)
			m.publishConcluded(b)
		case wallNow.Sub(b.LastDamageTime) >= m.cfg.StalemateWindow:
			b.finalize(fmt.Sprintf(ReasonStalemate, minutes(m.cfg.StalemateWindow)), wallNow)
			m.publishConcluded(b)
		}

		b.mu.Unlock()
	}

	for _, id := range toPurge {
		m.purge(id)
	}

	return true, nil
}

// minutes :
// Rounds a duration down to whole minutes for use in a termination
// reason string, e.g. 30*time.Minute -> 30.
func minutes(d time.Duration) int64 {
	return int64(d / time.Minute)
}
