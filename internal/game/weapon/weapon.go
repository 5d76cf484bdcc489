// Package weapon builds runtime weapon instances from unit weapon slots.
//
// Loading a unit's weapons is a two phase, strictly ordered process: Load
// constructs the behaviour variant named by a slot's definition, Init derives
// every runtime field from the definition and the slot override, and the
// result is appended to the owner before the next slot is processed.
package weapon

import (
	"github.com/cory-johannsen/armory/internal/game/collision"
	"github.com/cory-johannsen/armory/internal/game/unitdef"
)

// State is the lifecycle state of a Weapon.
type State int

const (
	// StateConstructed is the state of a weapon returned by Load.
	StateConstructed State = iota
	// StateInitialized is the state of a weapon after a successful Init.
	StateInitialized
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateInitialized:
		return "initialized"
	default:
		return "invalid"
	}
}

// Owner is the unit a weapon is mounted on. Its weapon sequence is the arena
// slave references index into; it only ever grows by AppendWeapon.
type Owner interface {
	// DefName returns the owner's unit definition name.
	DefName() string
	// CanFly reports whether the owner is flight-capable.
	CanFly() bool
	// Weapons returns the owner's weapons in append order.
	Weapons() []*Weapon
	// AppendWeapon adds an initialized weapon to the end of the sequence.
	AppendWeapon(w *Weapon)
}

// noSlave marks a weapon that aims on its own.
const noSlave = -1

// Weapon is a runtime weapon instance. Derived fields are populated once by
// Init and are not recomputed from the definition afterwards.
type Weapon struct {
	owner Owner
	state State
	// Def is the shared definition this weapon was built from.
	Def *unitdef.WeaponDef
	// Behavior is the variant selected by Load.
	Behavior Behavior

	// Num is the weapon's position in the owner's sequence.
	Num int
	// Passive is set by variants that never aim at targets.
	Passive bool

	ReloadFrames     int
	StockpileFrames  int
	SalvoDelayFrames int

	Range              float64
	HeightMod          float64
	ProjectileSpeed    float64
	DamageAreaOfEffect float64
	CraterAreaOfEffect float64
	Accuracy           float64
	SprayAngle         float64

	SalvoSize          int
	ProjectilesPerShot int

	MetalFireCost  float64
	EnergyFireCost float64

	FireSoundID     int
	FireSoundVolume float64

	OnlyForward bool
	// MaxForwardAngleDif is the cosine of the definition's max angle.
	MaxForwardAngleDif float64
	// MaxMainDirAngleDif is the cosine of half the slot's firing arc.
	MaxMainDirAngleDif float64
	MainDir            unitdef.Vec3

	BadTargetCategory  uint32
	OnlyTargetCategory uint32

	FuelUsage         float64
	TargetBorder      float64
	CylinderTargeting float64
	MinIntensity      float64
	HeightBoostFactor float64

	CollisionFlags collision.Flags
	AvoidFlags     collision.Flags

	slavedTo int
}

// Owner returns the unit the weapon is mounted on.
func (w *Weapon) Owner() Owner { return w.owner }

// State returns the weapon's lifecycle state.
func (w *Weapon) State() State { return w.state }

// SlavedTo returns the sibling weapon this weapon follows, or nil if it aims
// on its own.
func (w *Weapon) SlavedTo() *Weapon {
	if w.slavedTo == noSlave {
		return nil
	}
	return w.owner.Weapons()[w.slavedTo]
}

// SlavedToIndex returns the arena index of the sibling weapon this weapon
// follows and whether the weapon is slaved at all.
func (w *Weapon) SlavedToIndex() (int, bool) {
	return w.slavedTo, w.slavedTo != noSlave
}
