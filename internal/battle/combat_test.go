package battle

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestImpactTimeMs(t *testing.T) {
	tests := []struct {
		tag      string
		dist     float64
		expected float64
	}{
		{"laser", 500, 0},
		{"beam", 1000, 0},
		{"missile", 300, 1000},
		{"torpedo", 150, 1000},
		{"projectile", 800, 1000},
		{"unknown", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			require.Equal(t, tt.expected, impactTimeMs(tt.tag, tt.dist))
		})
	}
}

func TestApplyDamage_ShieldAbsorbsBeforeHull(t *testing.T) {
	u := &Unit{HP: 100, Shield: 30, Alive: true}

	applyDamage(u, 20)

	require.Equal(t, 10.0, u.Shield)
	require.Equal(t, 100.0, u.HP)
	require.True(t, u.Alive)
}

func TestApplyDamage_OverflowsIntoHull(t *testing.T) {
	u := &Unit{HP: 100, Shield: 30, Alive: true}

	applyDamage(u, 50)

	require.Equal(t, 0.0, u.Shield)
	require.Equal(t, 80.0, u.HP)
}

func TestApplyDamage_DestroysAtZeroHP(t *testing.T) {
	u := &Unit{HP: 10, Shield: 0, Alive: true}

	applyDamage(u, 15)

	require.Equal(t, 0.0, u.HP)
	require.False(t, u.Alive)
}

func TestRegenShields_ClampsAtMax(t *testing.T) {
	units := []*Unit{
		{Alive: true, Shield: 90, MaxShield: 100, ShieldRegen: 50},
		{Alive: false, Shield: 0, MaxShield: 100, ShieldRegen: 50},
	}

	regenShields(units, time.Second)

	require.Equal(t, 100.0, units[0].Shield)
	require.Equal(t, 0.0, units[1].Shield)
}

func TestResolveFiring_SingleShotKillsWeakTarget(t *testing.T) {
	now := time.Now()
	attacker := armedUnit(1, 1, mgl64.Vec3{0, 0, 0}, 0, 100, 10)
	attacker.Weapons[0].DPS = 1000
	attacker.Weapons[0].Cooldown = time.Second
	target := armedUnit(2, 2, mgl64.Vec3{10, 0, 0}, 0, 100, 10)
	target.HP = 1
	attacker.TargetID = &target.ID

	units := []*Unit{attacker, target}
	damaged, destroyed, fired := resolveFiring(units, byIDFrom(units), now)

	require.Len(t, fired, 1)
	require.Len(t, damaged, 1)
	require.Len(t, destroyed, 1)
	require.Equal(t, target.ID, destroyed[0].ID)
	require.Equal(t, attacker.ID, destroyed[0].DestroyedBy)
	require.False(t, target.Alive)
}

func TestResolveFiring_WeaponOnCooldownDoesNotFire(t *testing.T) {
	now := time.Now()
	attacker := armedUnit(1, 1, mgl64.Vec3{0, 0, 0}, 0, 100, 10)
	attacker.Weapons[0].LastFired = now
	attacker.Weapons[0].Cooldown = time.Minute
	target := armedUnit(2, 2, mgl64.Vec3{10, 0, 0}, 0, 100, 10)
	attacker.TargetID = &target.ID

	units := []*Unit{attacker, target}
	_, _, fired := resolveFiring(units, byIDFrom(units), now)

	require.Empty(t, fired)
}

func TestResolveFiring_ArmorGatesDamage(t *testing.T) {
	now := time.Now()
	attacker := armedUnit(1, 1, mgl64.Vec3{0, 0, 0}, 0, 100, 1)
	target := armedUnit(2, 2, mgl64.Vec3{10, 0, 0}, 5, 100, 10)
	attacker.TargetID = &target.ID

	units := []*Unit{attacker, target}
	_, _, fired := resolveFiring(units, byIDFrom(units), now)

	require.Empty(t, fired, "weapon cannot damage target whose armor exceeds target_armor_max")
}
