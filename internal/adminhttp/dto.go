package adminhttp

import (
	"battlesim_server/internal/battle"
	"battlesim_server/pkg/duration"
)

// startBattleRequest :
// Body of a `POST /battle/start` request.
type startBattleRequest struct {
	BattleID string              `json:"battle_id"`
	SystemID string              `json:"system_id"`
	Seed     int64               `json:"seed"`
	Units    []battle.UnitRecord `json:"units"`
}

// reinforceRequest :
// Body of a `POST /battle/reinforce/:id` request.
type reinforceRequest struct {
	Units []battle.UnitRecord `json:"units"`
}

// updatePositionsRequest :
// Body of a `POST /battle/positions/:id` request.
type updatePositionsRequest struct {
	Positions []battle.PositionUpdate `json:"positions"`
}

// statusResponse :
// Shape returned by both `GET /battle/status/:id` and the entries of
// `GET /battles/active`.
type statusResponse struct {
	BattleID   string   `json:"battle_id"`
	SystemID   string   `json:"system_id"`
	Tick       int64    `json:"tick"`
	DurationMs int64    `json:"duration_ms"`
	Ended      bool     `json:"ended"`
	UnitCount  int      `json:"unit_count"`
	Factions   []int64  `json:"factions"`
	IsIdle     bool     `json:"is_idle"`
	Results    *results `json:"results,omitempty"`
}

// results :
// JSON shape of a concluded battle's outcome.
type results struct {
	Survivors  []int64 `json:"survivors"`
	Casualties []int64 `json:"casualties"`
	Victor     *int64  `json:"victor,omitempty"`
	Reason     string  `json:"reason"`
	TotalTicks int64   `json:"total_ticks"`
	DurationMs int64   `json:"duration_ms"`
}

// errorResponse :
// Shape of every non-2xx JSON response produced by this package.
type errorResponse struct {
	Error string `json:"error"`
}

// healthResponse :
// Shape of the `GET /health` response. `TickInterval` is surfaced as
// a human-readable duration string rather than raw milliseconds,
// since an operator reading this endpoint by hand benefits from
// "50ms" over a bare integer whose unit isn't self-evident. `Uptime`
// is the same kind of human-readable duration, measuring how long
// this process has been serving requests.
type healthResponse struct {
	Status       string            `json:"status"`
	ActiveCount  int               `json:"active_battles"`
	InstanceID   string            `json:"instance_id"`
	TickInterval duration.Duration `json:"tick_interval"`
	Uptime       duration.Duration `json:"uptime"`
}
