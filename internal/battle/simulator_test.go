package battle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func twoFactionUnitRecord(id, faction int64, x float64) UnitRecord {
	return UnitRecord{
		ID:        id,
		FactionID: faction,
		MaxHP:     100,
		HP:        100,
		MaxSpeed:  50,
		PosX:      x,
		Weapons: []WeaponRecord{
			{Tag: "laser", DPS: 1000, FireRate: 10, MaxRange: 1000, OptimalRange: 0, TargetArmorMax: 10},
		},
	}
}

func TestSimulator_StepResolvesCombatBetweenFactions(t *testing.T) {
	sim := NewSimulator(1)
	now := time.Now()

	require.NoError(t, sim.AddUnit(twoFactionUnitRecord(1, 1, 0), now))
	require.NoError(t, sim.AddUnit(twoFactionUnitRecord(2, 2, 10), now))

	delta := sim.Step(100*time.Millisecond, now.Add(100*time.Millisecond))

	require.NotEmpty(t, delta.WeaponsFired)
}

func TestSimulator_IsBattleEndedWhenOneFactionRemains(t *testing.T) {
	sim := NewSimulator(1)
	now := time.Now()

	rec1 := twoFactionUnitRecord(1, 1, 0)
	rec2 := twoFactionUnitRecord(2, 2, 10)
	rec2.HP = 1
	rec2.MaxHP = 1

	require.NoError(t, sim.AddUnit(rec1, now))
	require.NoError(t, sim.AddUnit(rec2, now))

	require.False(t, sim.IsBattleEnded())

	for i := 0; i < 10 && !sim.IsBattleEnded(); i++ {
		now = now.Add(100 * time.Millisecond)
		sim.Step(100*time.Millisecond, now)
	}

	require.True(t, sim.IsBattleEnded())
}

func TestSimulator_EmptyOrSingleFactionEndsImmediately(t *testing.T) {
	empty := NewSimulator(1)
	require.True(t, empty.IsBattleEnded())

	oneFaction := NewSimulator(1)
	now := time.Now()
	require.NoError(t, oneFaction.AddUnit(twoFactionUnitRecord(1, 1, 0), now))
	require.NoError(t, oneFaction.AddUnit(twoFactionUnitRecord(2, 1, 10), now))
	require.True(t, oneFaction.IsBattleEnded())
}

func TestSimulator_AddUnitRejectsDuplicateID(t *testing.T) {
	sim := NewSimulator(1)
	now := time.Now()

	require.NoError(t, sim.AddUnit(twoFactionUnitRecord(1, 1, 0), now))
	err := sim.AddUnit(twoFactionUnitRecord(1, 2, 10), now)

	require.ErrorIs(t, err, ErrDuplicateUnit)
}

func TestSimulator_DeterministicGivenSameSeed(t *testing.T) {
	now := time.Now()

	run := func() []MovedRecord {
		sim := NewSimulator(42)
		require.NoError(t, sim.AddUnit(twoFactionUnitRecord(1, 1, 0), now))
		require.NoError(t, sim.AddUnit(twoFactionUnitRecord(2, 2, 500), now))

		for i := 0; i < 5; i++ {
			sim.Step(50*time.Millisecond, now.Add(time.Duration(i+1)*50*time.Millisecond))
		}
		return sim.UnitPositions()
	}

	require.Equal(t, run(), run())
}
