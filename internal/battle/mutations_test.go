package battle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUpdatePositions_OverwritesAndClearsTarget(t *testing.T) {
	sim := NewSimulator(1)
	now := time.Now()

	require.NoError(t, sim.AddUnit(twoFactionUnitRecord(1, 1, 0), now))
	target := int64(99)
	u, _ := sim.unitByID(1)
	u.TargetID = &target

	count := sim.UpdatePositions([]PositionUpdate{
		{ID: 1, X: 10, Y: 20, Z: 30, ClearTarget: true},
		{ID: 404, X: 0, Y: 0, Z: 0},
	})

	require.Equal(t, 1, count)
	require.Equal(t, 10.0, u.Pos[0])
	require.Equal(t, 20.0, u.Pos[1])
	require.Equal(t, 30.0, u.Pos[2])
	require.Nil(t, u.TargetID)
}

func TestUpdateSinglePosition_UnknownUnitReturnsFalse(t *testing.T) {
	sim := NewSimulator(1)
	require.False(t, sim.UpdateSinglePosition(123, 1, 2, 3, false))
}

func TestForceRetarget_ClearsEveryTarget(t *testing.T) {
	sim := NewSimulator(1)
	now := time.Now()

	require.NoError(t, sim.AddUnit(twoFactionUnitRecord(1, 1, 0), now))
	require.NoError(t, sim.AddUnit(twoFactionUnitRecord(2, 2, 10), now))

	u1, _ := sim.unitByID(1)
	tid := int64(2)
	u1.TargetID = &tid

	sim.ForceRetarget()

	require.Nil(t, u1.TargetID)
}
