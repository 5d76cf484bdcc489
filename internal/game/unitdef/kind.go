package unitdef

import "sort"

// WeaponKind is the closed set of weapon behaviours a definition's type
// identifier can name. KindUnknown covers empty and unrecognized identifiers.
type WeaponKind int

const (
	KindUnknown WeaponKind = iota
	KindCannon
	KindRifle
	KindMelee
	KindShield
	KindFlame
	KindMissileLauncher
	KindAircraftBomb
	KindTorpedoLauncher
	KindLaserCannon
	KindBeamLaser
	KindLightningCannon
	KindEmgCannon
	KindDGun
	KindStarburstLauncher

	kindCount
)

// Type identifiers are matched case-sensitively.
var kindByType = map[string]WeaponKind{
	"Cannon":            KindCannon,
	"Rifle":             KindRifle,
	"Melee":             KindMelee,
	"Shield":            KindShield,
	"Flame":             KindFlame,
	"MissileLauncher":   KindMissileLauncher,
	"AircraftBomb":      KindAircraftBomb,
	"TorpedoLauncher":   KindTorpedoLauncher,
	"LaserCannon":       KindLaserCannon,
	"BeamLaser":         KindBeamLaser,
	"LightningCannon":   KindLightningCannon,
	"EmgCannon":         KindEmgCannon,
	"DGun":              KindDGun,
	"StarburstLauncher": KindStarburstLauncher,
}

// NumKinds is the number of WeaponKind values including KindUnknown.
const NumKinds = int(kindCount)

// ParseWeaponKind maps a type identifier to its WeaponKind.
//
// Postcondition: ok is false and the result is KindUnknown iff typ is not a
// recognized identifier.
func ParseWeaponKind(typ string) (WeaponKind, bool) {
	k, ok := kindByType[typ]
	return k, ok
}

// String returns the type identifier for k, or "Unknown".
func (k WeaponKind) String() string {
	for typ, kind := range kindByType {
		if kind == k {
			return typ
		}
	}
	return "Unknown"
}

// TypeIdentifiers returns every recognized type identifier in sorted order.
func TypeIdentifiers() []string {
	out := make([]string, 0, len(kindByType))
	for typ := range kindByType {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}
