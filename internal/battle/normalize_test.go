package battle

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLooksLikeStation(t *testing.T) {
	tests := []struct {
		unitType string
		expected bool
	}{
		{"Orbital Station", true},
		{"outpost-alpha", true},
		{"Defense Platform", true},
		{"Battlecruiser", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.unitType, func(t *testing.T) {
			require.Equal(t, tt.expected, looksLikeStation(tt.unitType))
		})
	}
}

func TestNormalize_ClassifiesFromUnitType(t *testing.T) {
	u := &Unit{UnitType: "Mining Station"}
	Normalize(u, time.Now(), rand.New(rand.NewSource(1)))

	require.True(t, u.IsStation)
	require.False(t, u.IsShip)
}

func TestNormalize_DefaultsToShipWhenAmbiguous(t *testing.T) {
	u := &Unit{UnitType: "Frigate"}
	Normalize(u, time.Now(), rand.New(rand.NewSource(1)))

	require.True(t, u.IsShip)
	require.False(t, u.IsStation)
}

func TestNormalize_RespectsExplicitClassification(t *testing.T) {
	u := &Unit{UnitType: "Station", IsShip: true}
	Normalize(u, time.Now(), rand.New(rand.NewSource(1)))

	require.True(t, u.IsShip)
	require.False(t, u.IsStation)
}

func TestNormalize_DerivesMaxWeaponRangeAndHasWeapons(t *testing.T) {
	u := &Unit{
		Weapons: []*Weapon{
			{MaxRange: 100},
			{MaxRange: 300},
		},
	}
	Normalize(u, time.Now(), rand.New(rand.NewSource(1)))

	require.True(t, u.HasWeapons)
	require.Equal(t, 300.0, u.MaxWeaponRange)
}

func TestNormalize_StaggersLastFiredWithinCooldown(t *testing.T) {
	now := time.Now()
	u := &Unit{Weapons: []*Weapon{{Cooldown: 2 * time.Second}}}
	Normalize(u, now, rand.New(rand.NewSource(7)))

	offset := now.Sub(u.Weapons[0].LastFired)
	require.True(t, offset >= 0 && offset <= 2*time.Second)
}

func TestNormalize_SetsAliveFromHP(t *testing.T) {
	alive := &Unit{HP: 10}
	dead := &Unit{HP: 0}

	Normalize(alive, time.Now(), rand.New(rand.NewSource(1)))
	Normalize(dead, time.Now(), rand.New(rand.NewSource(1)))

	require.True(t, alive.Alive)
	require.False(t, dead.Alive)
}

func TestNormalize_IsIdempotent(t *testing.T) {
	now := time.Now()
	rng := rand.New(rand.NewSource(3))

	u := &Unit{
		UnitType: "Cruiser",
		HP:       50,
		Weapons:  []*Weapon{{MaxRange: 200, Cooldown: time.Second}},
	}

	Normalize(u, now, rng)
	firstFired := u.Weapons[0].LastFired
	firstRange := u.MaxWeaponRange
	firstShip := u.IsShip

	Normalize(u, now.Add(time.Minute), rng)

	require.Equal(t, firstFired, u.Weapons[0].LastFired)
	require.Equal(t, firstRange, u.MaxWeaponRange)
	require.Equal(t, firstShip, u.IsShip)
}
