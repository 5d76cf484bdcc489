// Package unit provides runtime units and the manager that spawns them from
// unit definitions.
package unit

import (
	"github.com/cory-johannsen/armory/internal/game/unitdef"
	"github.com/cory-johannsen/armory/internal/game/weapon"
)

// Unit is a live unit. It exclusively owns its weapons.
type Unit struct {
	// ID uniquely identifies this runtime instance.
	ID string
	// Def is the unit's shared definition.
	Def     *unitdef.UnitDef
	weapons []*weapon.Weapon
}

// New creates a unit with no weapons.
//
// Precondition: id must be non-empty; def must be non-nil.
func New(id string, def *unitdef.UnitDef) *Unit {
	return &Unit{
		ID:      id,
		Def:     def,
		weapons: make([]*weapon.Weapon, 0, len(def.Weapons)),
	}
}

// DefName returns the unit definition name.
func (u *Unit) DefName() string { return u.Def.Name }

// CanFly reports whether the unit is flight-capable.
func (u *Unit) CanFly() bool { return u.Def.CanFly }

// Weapons returns the unit's weapons in slot order. The slice must not be
// modified by the caller.
func (u *Unit) Weapons() []*weapon.Weapon { return u.weapons }

// AppendWeapon adds w as the unit's next weapon.
//
// Precondition: w.Num == len(u.Weapons()).
func (u *Unit) AppendWeapon(w *weapon.Weapon) {
	u.weapons = append(u.weapons, w)
}

// Weapon returns the weapon with ordinal num.
//
// Postcondition: Returns (w, true) if 0 <= num < len(u.Weapons()), (nil, false) otherwise.
func (u *Unit) Weapon(num int) (*weapon.Weapon, bool) {
	if num < 0 || num >= len(u.weapons) {
		return nil, false
	}
	return u.weapons[num], true
}
