package battle

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestMoveUnits_StationsNeverMove(t *testing.T) {
	station := armedUnit(1, 1, mgl64.Vec3{0, 0, 0}, 0, 1000, 10)
	station.IsStation = true
	station.MaxSpeed = 100
	target := armedUnit(2, 2, mgl64.Vec3{500, 0, 0}, 0, 1000, 10)
	station.TargetID = &target.ID

	units := []*Unit{station, target}
	moved := moveUnits(units, byIDFrom(units), time.Second)

	require.Empty(t, moved)
	require.Equal(t, mgl64.Vec3{0, 0, 0}, station.Pos)
}

func TestMoveUnits_ClosesToOptimalRangeButNoFurther(t *testing.T) {
	attacker := armedUnit(1, 1, mgl64.Vec3{0, 0, 0}, 0, 1000, 10)
	attacker.MaxSpeed = 1000
	attacker.Weapons[0].OptimalRange = 400
	target := armedUnit(2, 2, mgl64.Vec3{500, 0, 0}, 0, 1000, 10)
	attacker.TargetID = &target.ID

	units := []*Unit{attacker, target}
	moved := moveUnits(units, byIDFrom(units), time.Second)

	require.Contains(t, moved, attacker.ID)
	require.InDelta(t, 100.0, attacker.Pos[0], 1e-9)
}

func TestMoveUnits_AlreadyInOptimalRangeDoesNotMove(t *testing.T) {
	attacker := armedUnit(1, 1, mgl64.Vec3{0, 0, 0}, 0, 1000, 10)
	attacker.MaxSpeed = 1000
	attacker.Weapons[0].OptimalRange = 400
	target := armedUnit(2, 2, mgl64.Vec3{100, 0, 0}, 0, 1000, 10)
	attacker.TargetID = &target.ID

	units := []*Unit{attacker, target}
	moved := moveUnits(units, byIDFrom(units), time.Second)

	require.Empty(t, moved)
	require.Equal(t, mgl64.Vec3{0, 0, 0}, attacker.Pos)
}

func TestMoveUnits_SpeedCapsAdvance(t *testing.T) {
	attacker := armedUnit(1, 1, mgl64.Vec3{0, 0, 0}, 0, 1000, 10)
	attacker.MaxSpeed = 10
	attacker.Weapons[0].OptimalRange = 0
	target := armedUnit(2, 2, mgl64.Vec3{1000, 0, 0}, 0, 1000, 10)
	attacker.TargetID = &target.ID

	units := []*Unit{attacker, target}
	moveUnits(units, byIDFrom(units), time.Second)

	require.InDelta(t, 10.0, attacker.Pos[0], 1e-9)
}

func TestMoveUnits_DeadOrUntargetedUnitsSkipped(t *testing.T) {
	dead := armedUnit(1, 1, mgl64.Vec3{0, 0, 0}, 0, 1000, 10)
	dead.Alive = false
	noTarget := armedUnit(2, 1, mgl64.Vec3{0, 0, 0}, 0, 1000, 10)

	units := []*Unit{dead, noTarget}
	moved := moveUnits(units, byIDFrom(units), time.Second)

	require.Empty(t, moved)
}
