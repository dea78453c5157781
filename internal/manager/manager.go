package manager

import (
	"fmt"
	"sync"
	"time"

	"battlesim_server/internal/battle"
	"battlesim_server/pkg/arguments"
	"battlesim_server/pkg/background"
	"battlesim_server/pkg/logger"
)

// StatusSnapshot :
// The read-only view of a battle returned by Status and
// ActiveBattles. A plain struct rather than a live reference, so
// that callers never observe a battle mutating underneath them.
type StatusSnapshot struct {
	BattleID   string
	SystemID   string
	Tick       int64
	DurationMs int64
	Ended      bool
	UnitCount  int
	Factions   []int64
	IsIdle     bool
	Results    *Results
}

// Manager :
// Owns the set of live battles, the global tick scheduler, the
// timeout checker, and the event bus fanning deltas out to
// subscribers. This is the coordinator described in spec §2: the
// simulator is a pure per-battle state machine, the manager is what
// turns many of them into a running service.
//
// The per-battle `mu` inside each Battle serializes ingress
// operations against scheduler steps; `registryMu` here only
// protects the registry map itself (insertion, lookup, deletion),
// never a battle's internal state.
type Manager struct {
	registryMu sync.RWMutex
	battles    map[string]*Battle

	cfg arguments.SimConfig
	log logger.Logger
	bus *eventBus

	scheduler *background.Process
	timeouts  *background.Process

	startedAt time.Time
}

// NewManager :
// Creates a manager with the given simulation tunables and logger.
// The scheduler and timeout checker are not started until Run is
// called.
func NewManager(cfg arguments.SimConfig, log logger.Logger) *Manager {
	m := &Manager{
		battles:   make(map[string]*Battle),
		cfg:       cfg,
		log:       log,
		bus:       newEventBus(),
		startedAt: time.Now(),
	}

	m.scheduler = background.NewProcess(cfg.TickInterval, log).
		WithModule("scheduler").
		WithOperation(m.runSchedulerTick)
	m.timeouts = background.NewProcess(cfg.TimeoutCheckInterval, log).
		WithModule("timeouts").
		WithOperation(m.runTimeoutCheck)

	return m
}

// Run :
// Starts the global scheduler and the timeout checker. Both run for
// the lifetime of the process until Shutdown is called.
func (m *Manager) Run() error {
	if err := m.scheduler.Start(); err != nil {
		return err
	}
	if err := m.timeouts.Start(); err != nil {
		m.scheduler.Stop()
		return err
	}
	return nil
}

// Subscribe :
// Returns a channel of events scoped to the given system_id.
func (m *Manager) Subscribe(systemID string) <-chan Event {
	return m.bus.Subscribe(systemID)
}

// Uptime :
// Returns how long this manager has been running, measured since it
// was constructed by NewManager.
func (m *Manager) Uptime() time.Duration {
	return time.Since(m.startedAt)
}

// StartBattle :
// Constructs a new simulator from the given unit records, registers
// a new Battle under battleID, and publishes a `battle:started`
// event to systemID's subscribers. Returns ErrInvalidPayload if
// battleID is empty, or ErrDuplicateBattle if it is already in use.
func (m *Manager) StartBattle(battleID, systemID string, units []battle.UnitRecord, seed int64) (StatusSnapshot, error) {
	if battleID == "" {
		return StatusSnapshot{}, ErrInvalidPayload
	}

	m.registryMu.Lock()
	if _, exists := m.battles[battleID]; exists {
		m.registryMu.Unlock()
		return StatusSnapshot{}, ErrDuplicateBattle
	}

	wallNow := time.Now()
	sim := battle.NewSimulator(seed)
	for _, rec := range units {
		if err := sim.AddUnit(rec, wallNow); err != nil {
			m.registryMu.Unlock()
			return StatusSnapshot{}, fmt.Errorf("%w: %v", battle.ErrInvalidPayload, err)
		}
	}

	b := newBattle(battleID, systemID, sim, wallNow)
	m.battles[battleID] = b
	m.registryMu.Unlock()

	factions := factionsOf(sim)
	m.bus.Publish(Event{
		Type:     EventStarted,
		BattleID: battleID,
		SystemID: systemID,
		Payload:  StartedPayload{UnitCount: sim.UnitCount(), Factions: factions},
	})

	if sim.IsBattleEnded() {
		b.mu.Lock()
		b.finalize(reasonForTrivialEnd(units), wallNow)
		m.publishConcluded(b)
		b.mu.Unlock()
	}

	return m.snapshot(b), nil
}

// reasonForTrivialEnd :
// A battle started with zero units, or whose units all belong to one
// faction, ends immediately on the very first evaluation. This is
// not a timeout or a failure, just the natural consequence of the
// "is_battle_ended iff at most one active faction" invariant holding
// trivially for 0 or 1 factions.
func reasonForTrivialEnd(units []battle.UnitRecord) string {
	if len(units) == 0 {
		return "no_units"
	}
	return "single_faction"
}

// ReinforceBattle :
// Adds units to an existing, non-ended battle, publishes a
// `battle:reinforcements` event, and wakes the battle from idle.
func (m *Manager) ReinforceBattle(battleID string, units []battle.UnitRecord) (int, error) {
	b, err := m.lookup(battleID)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Ended {
		return 0, ErrBattleEnded
	}

	wallNow := time.Now()
	added := 0
	entries := make([]ReinforcementEntry, 0, len(units))
	for _, rec := range units {
		if err := b.sim.AddUnit(rec, wallNow); err != nil {
			continue
		}
		added++
		entries = append(entries, ReinforcementEntry{ID: rec.ID, FactionID: rec.FactionID, PlayerID: rec.PlayerID})
	}

	b.IsIdle = false
	b.IdleCheckCount = 0

	m.bus.Publish(Event{
		Type:     EventReinforcements,
		BattleID: b.BattleID,
		SystemID: b.SystemID,
		Payload:  ReinforcementsPayload{Reinforcements: entries},
	})

	return added, nil
}

// UpdatePositions :
// Overwrites positions for the listed units in an existing,
// non-ended battle and wakes it from idle.
func (m *Manager) UpdatePositions(battleID string, updates []battle.PositionUpdate) (int, error) {
	b, err := m.lookup(battleID)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Ended {
		return 0, ErrBattleEnded
	}

	count := b.sim.UpdatePositions(updates)
	b.IsIdle = false
	b.IdleCheckCount = 0

	return count, nil
}

// UpdateSinglePosition :
// Convenience variant of UpdatePositions for a single unit.
func (m *Manager) UpdateSinglePosition(battleID string, id int64, x, y, z float64, clearTarget bool) error {
	_, err := m.UpdatePositions(battleID, []battle.PositionUpdate{{ID: id, X: x, Y: y, Z: z, ClearTarget: clearTarget}})
	return err
}

// ForceRetarget :
// Clears every unit's target in an existing, non-ended battle and
// wakes it from idle.
func (m *Manager) ForceRetarget(battleID string) error {
	b, err := m.lookup(battleID)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Ended {
		return ErrBattleEnded
	}

	b.sim.ForceRetarget()
	b.IsIdle = false
	b.IdleCheckCount = 0

	return nil
}

// StopBattle :
// Marks an existing battle as ended with the "stopped" reason,
// publishes `battle:concluded`, and leaves it in the registry for
// the retention window so late status queries still succeed.
func (m *Manager) StopBattle(battleID string) error {
	b, err := m.lookup(battleID)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.finalize(ReasonStopped, time.Now())
	m.publishConcluded(b)

	return nil
}

// Status :
// Returns a snapshot of a single battle, or false if it is unknown
// or has been purged past its retention window.
func (m *Manager) Status(battleID string) (StatusSnapshot, bool) {
	m.registryMu.RLock()
	b, ok := m.battles[battleID]
	m.registryMu.RUnlock()

	if !ok {
		return StatusSnapshot{}, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return m.snapshot(b), true
}

// ActiveBattles :
// Returns a snapshot of every battle currently tracked by the
// manager, including those within their post-end retention window.
func (m *Manager) ActiveBattles() []StatusSnapshot {
	m.registryMu.RLock()
	battles := make([]*Battle, 0, len(m.battles))
	for _, b := range m.battles {
		battles = append(battles, b)
	}
	m.registryMu.RUnlock()

	out := make([]StatusSnapshot, 0, len(battles))
	for _, b := range battles {
		b.mu.Lock()
		out = append(out, m.snapshot(b))
		b.mu.Unlock()
	}

	return out
}

// Shutdown :
// Ends every live battle with the `server_shutdown` reason, then
// stops the scheduler and the timeout checker. Called once, during
// graceful process shutdown.
func (m *Manager) Shutdown() {
	m.registryMu.RLock()
	battles := make([]*Battle, 0, len(m.battles))
	for _, b := range m.battles {
		battles = append(battles, b)
	}
	m.registryMu.RUnlock()

	wallNow := time.Now()
	for _, b := range battles {
		b.mu.Lock()
		if !b.Ended {
			b.finalize(ReasonShutdown, wallNow)
			m.publishConcluded(b)
		}
		b.mu.Unlock()
	}

	m.scheduler.Stop()
	m.timeouts.Stop()
}

// lookup :
// Finds a battle by id, or returns ErrBattleNotFound.
func (m *Manager) lookup(battleID string) (*Battle, error) {
	m.registryMu.RLock()
	defer m.registryMu.RUnlock()

	b, ok := m.battles[battleID]
	if !ok {
		return nil, ErrBattleNotFound
	}
	return b, nil
}

// purge :
// Removes a battle from the registry. Called by the timeout checker
// once a concluded battle's retention window has elapsed.
func (m *Manager) purge(battleID string) {
	m.registryMu.Lock()
	delete(m.battles, battleID)
	m.registryMu.Unlock()
}

// snapshot :
// Builds a StatusSnapshot for b. Must be called with b.mu held.
func (m *Manager) snapshot(b *Battle) StatusSnapshot {
	factions := factionsOf(b.sim)

	return StatusSnapshot{
		BattleID:   b.BattleID,
		SystemID:   b.SystemID,
		Tick:       b.Tick,
		DurationMs: time.Since(b.StartTime).Milliseconds(),
		Ended:      b.Ended,
		UnitCount:  b.sim.UnitCount(),
		Factions:   factions,
		IsIdle:     b.IsIdle,
		Results:    b.Results,
	}
}

// publishConcluded :
// Publishes the `battle:concluded` event for a battle that has just
// been finalized. Must be called with b.mu held and after
// b.finalize has run.
func (m *Manager) publishConcluded(b *Battle) {
	if b.Results == nil {
		return
	}

	m.bus.Publish(Event{
		Type:     EventConcluded,
		BattleID: b.BattleID,
		SystemID: b.SystemID,
		Payload: ConcludedPayload{
			DurationMs: b.Results.DurationMs,
			TotalTicks: b.Results.TotalTicks,
			Survivors:  b.Results.Survivors,
			Casualties: b.Results.Casualties,
			Victor:     b.Results.Victor,
			Reason:     b.Results.Reason,
		},
	})
}

// factionsOf :
// Returns the faction ids with an alive unit in sim, in no particular
// order (they are read out of a map), or nil if sim is nil.
func factionsOf(sim *battle.Simulator) []int64 {
	if sim == nil {
		return nil
	}
	set := sim.ActiveFactions()
	out := make([]int64, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	return out
}
