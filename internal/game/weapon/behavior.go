package weapon

import "github.com/cory-johannsen/armory/internal/game/unitdef"

// Behavior is the variant-specific part of a weapon. Firing, aiming and
// projectile handling live in the simulation; here a behaviour only
// identifies itself and performs its one-time setup.
type Behavior interface {
	// Name returns the behaviour's variant name.
	Name() string
	// Setup runs once, after every derived field of w has been populated.
	Setup(w *Weapon)
}

type baseBehavior struct{ name string }

func (b baseBehavior) Name() string { return b.name }
func (baseBehavior) Setup(*Weapon)  {}

// Cannon fires ballistic shells.
type Cannon struct{ baseBehavior }

// Rifle fires instant-hit rounds.
type Rifle struct{ baseBehavior }

// Melee strikes targets in contact range.
type Melee struct{ baseBehavior }

// PlasmaRepulser is a shield that absorbs or deflects incoming projectiles.
type PlasmaRepulser struct{ baseBehavior }

// Setup marks the shield as a non-aiming weapon.
func (PlasmaRepulser) Setup(w *Weapon) {
	w.Passive = true
}

// FlameThrower emits short-lived flame particles.
type FlameThrower struct{ baseBehavior }

// MissileLauncher fires guided missiles.
type MissileLauncher struct{ baseBehavior }

// BombDropper releases ordnance from aircraft. Torpedo is set when the
// dropped ordnance continues under water as a torpedo.
type BombDropper struct {
	baseBehavior
	Torpedo bool
}

// TorpedoLauncher fires torpedoes from a surface or submerged unit.
type TorpedoLauncher struct{ baseBehavior }

// LaserCannon fires fast bolts.
type LaserCannon struct{ baseBehavior }

// BeamLaser fires a continuous beam.
type BeamLaser struct{ baseBehavior }

// LightningCannon fires an instant lightning arc.
type LightningCannon struct{ baseBehavior }

// EmgCannon fires energy pulses.
type EmgCannon struct{ baseBehavior }

// DGun fires a devastating ground-hugging projectile. Any weapon may be
// bound to manual fire; DGun has no special connection to it.
type DGun struct{ baseBehavior }

// StarburstLauncher fires vertically launched missiles.
type StarburstLauncher struct{ baseBehavior }

// NoWeapon is the inert variant used for unknown type identifiers.
type NoWeapon struct{ baseBehavior }

// Setup marks the weapon inert.
func (NoWeapon) Setup(w *Weapon) {
	w.Passive = true
}

type constructor func(owner Owner, def *unitdef.WeaponDef) Behavior

// constructors is indexed by unitdef.WeaponKind. KindUnknown has no entry;
// Load substitutes NoWeapon for it.
var constructors = [unitdef.NumKinds]constructor{
	unitdef.KindCannon:          func(Owner, *unitdef.WeaponDef) Behavior { return &Cannon{baseBehavior{"Cannon"}} },
	unitdef.KindRifle:           func(Owner, *unitdef.WeaponDef) Behavior { return &Rifle{baseBehavior{"Rifle"}} },
	unitdef.KindMelee:           func(Owner, *unitdef.WeaponDef) Behavior { return &Melee{baseBehavior{"Melee"}} },
	unitdef.KindShield:          func(Owner, *unitdef.WeaponDef) Behavior { return &PlasmaRepulser{baseBehavior{"PlasmaRepulser"}} },
	unitdef.KindFlame:           func(Owner, *unitdef.WeaponDef) Behavior { return &FlameThrower{baseBehavior{"FlameThrower"}} },
	unitdef.KindMissileLauncher: func(Owner, *unitdef.WeaponDef) Behavior { return &MissileLauncher{baseBehavior{"MissileLauncher"}} },
	unitdef.KindAircraftBomb:    func(Owner, *unitdef.WeaponDef) Behavior { return newBombDropper(false) },
	unitdef.KindTorpedoLauncher: func(owner Owner, def *unitdef.WeaponDef) Behavior {
		if owner.CanFly() && !def.SubMissile {
			return newBombDropper(true)
		}
		return &TorpedoLauncher{baseBehavior{"TorpedoLauncher"}}
	},
	unitdef.KindLaserCannon:       func(Owner, *unitdef.WeaponDef) Behavior { return &LaserCannon{baseBehavior{"LaserCannon"}} },
	unitdef.KindBeamLaser:         func(Owner, *unitdef.WeaponDef) Behavior { return &BeamLaser{baseBehavior{"BeamLaser"}} },
	unitdef.KindLightningCannon:   func(Owner, *unitdef.WeaponDef) Behavior { return &LightningCannon{baseBehavior{"LightningCannon"}} },
	unitdef.KindEmgCannon:         func(Owner, *unitdef.WeaponDef) Behavior { return &EmgCannon{baseBehavior{"EmgCannon"}} },
	unitdef.KindDGun:              func(Owner, *unitdef.WeaponDef) Behavior { return &DGun{baseBehavior{"DGun"}} },
	unitdef.KindStarburstLauncher: func(Owner, *unitdef.WeaponDef) Behavior { return &StarburstLauncher{baseBehavior{"StarburstLauncher"}} },
}

func newBombDropper(torpedo bool) *BombDropper {
	return &BombDropper{baseBehavior: baseBehavior{"BombDropper"}, Torpedo: torpedo}
}

func newNoWeapon() *NoWeapon {
	return &NoWeapon{baseBehavior{"NoWeapon"}}
}
