package manager

import (
	"testing"
	"time"

	"battlesim_server/internal/battle"

	"github.com/stretchr/testify/require"
)

func twoFactionRecord(id, faction int64, x float64) battle.UnitRecord {
	return battle.UnitRecord{
		ID:        id,
		FactionID: faction,
		MaxHP:     100,
		HP:        100,
		MaxSpeed:  50,
		PosX:      x,
		Weapons: []battle.WeaponRecord{
			{Tag: "laser", DPS: 1000, FireRate: 10, MaxRange: 1000, OptimalRange: 0, TargetArmorMax: 10},
		},
	}
}

func newTestBattle(t *testing.T, wallNow time.Time) *Battle {
	sim := battle.NewSimulator(1)
	require.NoError(t, sim.AddUnit(twoFactionRecord(1, 1, 0), wallNow))
	require.NoError(t, sim.AddUnit(twoFactionRecord(2, 2, 10), wallNow))

	return newBattle("b1", "s1", sim, wallNow)
}

func TestBattle_StepAdvancesTickAndRecordsDamage(t *testing.T) {
	now := time.Now()
	b := newTestBattle(t, now)

	delta := b.step(now.Add(100 * time.Millisecond))

	require.Equal(t, int64(1), b.Tick)
	require.NotEmpty(t, delta.WeaponsFired)
	require.Equal(t, now.Add(100*time.Millisecond), b.LastDamageTime)
}

func TestBattle_FinalizeIsIdempotent(t *testing.T) {
	now := time.Now()
	b := newTestBattle(t, now)

	b.finalize(ReasonStopped, now)
	firstResults := b.Results

	b.finalize(ReasonShutdown, now.Add(time.Minute))

	require.Same(t, firstResults, b.Results)
	require.Equal(t, ReasonStopped, b.Results.Reason)
}

func TestBattle_FinalizeComputesVictorWhenOneFactionRemains(t *testing.T) {
	now := time.Now()
	sim := battle.NewSimulator(1)
	rec1 := twoFactionRecord(1, 1, 0)
	rec2 := twoFactionRecord(2, 2, 10)
	rec2.HP = 0
	rec2.Alive = boolPtr(false)

	require.NoError(t, sim.AddUnit(rec1, now))
	require.NoError(t, sim.AddUnit(rec2, now))

	b := newBattle("b1", "s1", sim, now)
	b.finalize(ReasonBattleConcluded, now)

	require.NotNil(t, b.Results.Victor)
	require.Equal(t, int64(1), *b.Results.Victor)
	require.Equal(t, []int64{1}, b.Results.Survivors)
	require.Equal(t, []int64{2}, b.Results.Casualties)
}

func TestBattle_ShouldWake(t *testing.T) {
	now := time.Now()
	b := newTestBattle(t, now)
	b.LastTickTime = now

	require.False(t, b.shouldWake(now.Add(100*time.Millisecond), 500*time.Millisecond))
	require.True(t, b.shouldWake(now.Add(600*time.Millisecond), 500*time.Millisecond))
}

func boolPtr(b bool) *bool { return &b }
