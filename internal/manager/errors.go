package manager

import "fmt"

// ErrBattleNotFound :
// Indicates that an operation targets an unknown or already-purged
// battle id.
var ErrBattleNotFound = fmt.Errorf("battle not found")

// ErrBattleEnded :
// Indicates that a mutation was attempted against a battle that has
// already ended.
var ErrBattleEnded = fmt.Errorf("battle has already ended")

// ErrInvalidPayload :
// Indicates that a start/reinforcement request is missing a
// mandatory field (e.g. an empty battle id).
var ErrInvalidPayload = fmt.Errorf("invalid request payload")

// ErrDuplicateBattle :
// Indicates that start was called with a battle id already in use
// by a live or recently-ended battle.
var ErrDuplicateBattle = fmt.Errorf("battle id already in use")

// Termination reasons recorded on a battle's final results. These
// are not Go errors returned to a caller — they describe *why* a
// battle ended, and are carried in the `battle:concluded` event and
// in status responses.
const (
	ReasonStopped         = "stopped"
	ReasonMaxDuration     = "max_duration_exceeded_%dm"
	ReasonStalemate       = "stalemate_no_damage_%dm"
	ReasonStepFailure     = "step_failure"
	ReasonShutdown        = "server_shutdown"
	ReasonBattleConcluded = "battle_concluded"
)
