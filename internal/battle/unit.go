package battle

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Weapon :
// Describes a firing capability owned by a unit. A unit may carry an
// ordered list of weapons; each one is resolved independently during
// the firing phase of a tick.
//
// The `Tag` is a string key identifying the weapon category, used to
// look up the projectile travel speed for `impact_time_ms` purposes
// (e.g. "laser", "missile", "torpedo").
//
// The `DPS` is the damage dealt per second of sustained fire at full
// cadence.
//
// The `FireRate` is the number of shots per second this weapon can
// discharge.
//
// The `MaxRange` is the distance beyond which this weapon cannot hit
// a target at all.
//
// The `OptimalRange` is the distance within which the owning unit
// considers itself close enough to stop closing in on its target.
//
// The `TargetArmorMax` bounds the armor class this weapon can punch
// through: a weapon can only damage a target whose `armor` does not
// exceed this value.
//
// The `Cooldown` is the time that must elapse between two shots,
// equal to `1 / FireRate`.
//
// The `LastFired` is the wall-clock timestamp of this weapon's most
// recent discharge.
type Weapon struct {
	Tag            string
	DPS            float64
	FireRate       float64
	MaxRange       float64
	OptimalRange   float64
	TargetArmorMax float64
	Cooldown       time.Duration
	LastFired      time.Time
}

// Ready :
// Indicates whether this weapon has cooled down enough to fire again
// as of the provided wall-clock time.
func (w *Weapon) Ready(wallNow time.Time) bool {
	return wallNow.Sub(w.LastFired) >= w.Cooldown
}

// DamagePerShot :
// Returns the damage dealt by a single discharge of this weapon,
// i.e. `dps × cooldown` which is equivalent to `dps / fire_rate`.
func (w *Weapon) DamagePerShot() float64 {
	return w.DPS * w.Cooldown.Seconds()
}

// CanDamage :
// Indicates whether this weapon is able to damage a target with the
// given armor value at all. Armor is a gating predicate here, never
// a flat damage reduction — see combat.go for the rationale.
func (w *Weapon) CanDamage(targetArmor float64) bool {
	return w.TargetArmorMax >= targetArmor
}

// Unit :
// A single combat entity participating in a battle. Units are owned
// exclusively by the battle's simulator; external callers only ever
// see them through ingress records or delta snapshots.
//
// The `ID` is a unique numeric identifier within the owning battle.
//
// The `FactionID` identifies the side this unit fights for. Two units
// are enemies iff their faction ids differ.
//
// The `PlayerID` optionally identifies the player controlling this
// unit; nil if unowned (e.g. an NPC or environmental hazard).
//
// The `UnitType` is a free-form label, used to infer `IsStation` when
// the caller does not supply it explicitly.
//
// The `IsShip`/`IsStation` flags classify the unit; exactly one is
// true after normalization.
//
// The `Pos`/`Vel` describe the unit's kinematics in 3-D space.
//
// The `Weapons` list is ordered; firing resolves weapons in list
// order each tick.
//
// The `TargetID` is a loose reference to another unit in the same
// battle; it may point at a unit that is no longer alive until the
// next targeting pass clears it.
type Unit struct {
	ID        int64
	FactionID int64
	PlayerID  *int64
	UnitType  string
	IsShip    bool
	IsStation bool

	MaxHP       float64
	HP          float64
	MaxShield   float64
	Shield      float64
	Armor       float64
	ShieldRegen float64

	Pos      mgl64.Vec3
	Vel      mgl64.Vec3
	MaxSpeed float64

	Weapons        []*Weapon
	HasWeapons     bool
	MaxWeaponRange float64

	TargetID *int64
	Alive    bool

	DamageDealt float64
	DamageTaken float64
}

// MaxOptimalRange :
// Returns the largest optimal range across this unit's weapons, or 0
// if the unit is unarmed. Used by movement to decide whether a unit
// should keep closing on its target.
func (u *Unit) MaxOptimalRange() float64 {
	best := 0.0
	for _, w := range u.Weapons {
		if w.OptimalRange > best {
			best = w.OptimalRange
		}
	}
	return best
}

// UnitRecord :
// The ingress schema for a unit, as supplied by an external caller
// (e.g. the admin `start`/`reinforcements` endpoints). Optional
// pointer fields are nil when the caller leaves them unspecified,
// letting normalization derive sensible values.
type UnitRecord struct {
	ID        int64  `json:"id"`
	FactionID int64  `json:"faction_id"`
	PlayerID  *int64 `json:"player_id,omitempty"`
	UnitType  string `json:"unit_type,omitempty"`
	IsShip    *bool  `json:"is_ship,omitempty"`
	IsStation *bool  `json:"is_station,omitempty"`

	MaxHP       float64 `json:"max_hp"`
	HP          float64 `json:"hp"`
	MaxShield   float64 `json:"max_shield"`
	Shield      float64 `json:"shield"`
	Armor       float64 `json:"armor"`
	ShieldRegen float64 `json:"shield_regen"`

	PosX float64 `json:"pos_x"`
	PosY float64 `json:"pos_y"`
	PosZ float64 `json:"pos_z"`
	VelX float64 `json:"vel_x"`
	VelY float64 `json:"vel_y"`
	VelZ float64 `json:"vel_z"`

	MaxSpeed float64 `json:"max_speed"`

	Weapons        []WeaponRecord `json:"weapons"`
	MaxWeaponRange float64        `json:"max_weapon_range,omitempty"`

	TargetID *int64 `json:"target_id,omitempty"`
	Alive    *bool  `json:"alive,omitempty"`

	DamageDealt float64 `json:"damage_dealt,omitempty"`
	DamageTaken float64 `json:"damage_taken,omitempty"`
}

// WeaponRecord :
// The ingress schema for a weapon, nested inside a UnitRecord.
type WeaponRecord struct {
	Tag            string  `json:"tag"`
	DPS            float64 `json:"dps"`
	FireRate       float64 `json:"fire_rate"`
	MaxRange       float64 `json:"max_range"`
	OptimalRange   float64 `json:"optimal_range"`
	TargetArmorMax float64 `json:"target_armor_max"`
	CooldownSecs   float64 `json:"cooldown,omitempty"`
	LastFiredUnix  float64 `json:"last_fired,omitempty"`
}

// fromRecord :
// Converts a single weapon ingress record into its simulator-internal
// representation. `Cooldown` defaults to `1 / FireRate` when the
// caller does not supply one explicitly.
func (wr WeaponRecord) fromRecord() *Weapon {
	cooldown := wr.CooldownSecs
	if cooldown <= 0 && wr.FireRate > 0 {
		cooldown = 1 / wr.FireRate
	}

	w := &Weapon{
		Tag:            wr.Tag,
		DPS:            wr.DPS,
		FireRate:       wr.FireRate,
		MaxRange:       wr.MaxRange,
		OptimalRange:   wr.OptimalRange,
		TargetArmorMax: wr.TargetArmorMax,
		Cooldown:       time.Duration(cooldown * float64(time.Second)),
	}
	if wr.LastFiredUnix > 0 {
		w.LastFired = time.Unix(0, int64(wr.LastFiredUnix*float64(time.Second)))
	}

	return w
}

// FromRecord :
// Converts an ingress UnitRecord into the internal Unit representation.
// The returned unit is not yet normalized: callers must pass it through
// Normalize before it participates in a tick.
func FromRecord(rec UnitRecord) *Unit {
	u := &Unit{
		ID:          rec.ID,
		FactionID:   rec.FactionID,
		PlayerID:    rec.PlayerID,
		UnitType:    rec.UnitType,
		MaxHP:       rec.MaxHP,
		HP:          rec.HP,
		MaxShield:   rec.MaxShield,
		Shield:      rec.Shield,
		Armor:       rec.Armor,
		ShieldRegen: rec.ShieldRegen,
		Pos:         mgl64.Vec3{rec.PosX, rec.PosY, rec.PosZ},
		Vel:         mgl64.Vec3{rec.VelX, rec.VelY, rec.VelZ},
		MaxSpeed:    rec.MaxSpeed,

		MaxWeaponRange: rec.MaxWeaponRange,
		TargetID:       rec.TargetID,
		DamageDealt:    rec.DamageDealt,
		DamageTaken:    rec.DamageTaken,
	}

	if rec.IsShip != nil {
		u.IsShip = *rec.IsShip
	}
	if rec.IsStation != nil {
		u.IsStation = *rec.IsStation
	}
	if rec.Alive != nil {
		u.Alive = *rec.Alive
	}

	u.Weapons = make([]*Weapon, 0, len(rec.Weapons))
	for _, wr := range rec.Weapons {
		u.Weapons = append(u.Weapons, wr.fromRecord())
	}

	return u
}
