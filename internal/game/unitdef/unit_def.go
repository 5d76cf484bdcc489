package unitdef

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Vec3 is a direction or position in world space.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns v scaled to unit length, or v unchanged if it is zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vec3{X: v.X / l, Y: v.Y / l, Z: v.Z / l}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Forward is the default main firing direction of a slot.
var Forward = Vec3{Z: 1}

// WeaponSlot is a weapon attachment point on a unit. Its fields override the
// shared WeaponDef for this one slot.
type WeaponSlot struct {
	// Weapon names the WeaponDef mounted in this slot.
	Weapon string `yaml:"weapon"`
	// Def is resolved from Weapon by Registry.Link.
	Def *WeaponDef `yaml:"-"`

	MainDir Vec3 `yaml:"main_dir"`
	// MaxAngleDif is the full firing arc around MainDir in degrees.
	MaxAngleDif float64 `yaml:"max_angle_dif"`
	// MaxMainDirAngleDif is the cosine of half of MaxAngleDif, derived on load.
	MaxMainDirAngleDif float64 `yaml:"-"`

	BadTargetCategory  uint32 `yaml:"bad_target_category"`
	OnlyTargetCategory uint32 `yaml:"only_target_category"`

	// SlavedTo is the 1-based ordinal of the slot this one follows; 0 means
	// the slot aims on its own.
	SlavedTo int `yaml:"slaved_to"`

	// FuelUsageOverride replaces the definition's fuel usage when set.
	FuelUsageOverride *float64 `yaml:"fuel_usage"`
	// FuelUsage is the effective fuel usage, resolved by Registry.Link.
	FuelUsage float64 `yaml:"-"`
}

func (s *WeaponSlot) applyDefaults() {
	if s.MainDir.Length() == 0 {
		s.MainDir = Forward
	}
	s.MainDir = s.MainDir.Normalize()
	s.MaxMainDirAngleDif = math.Cos(s.MaxAngleDif * 0.5 * math.Pi / 180)
}

// UnitDef is the design-time definition of a unit type.
type UnitDef struct {
	Name    string       `yaml:"name"`
	CanFly  bool         `yaml:"can_fly"`
	Weapons []WeaponSlot `yaml:"weapons"`
}

// Validate checks structural invariants of the definition. Slave ordinals are
// only checked for sign here; whether they name an earlier slot is enforced
// when weapons are initialized.
//
// Precondition: u is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (u *UnitDef) Validate() error {
	var errs []error
	if u.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	for i, s := range u.Weapons {
		if s.Weapon == "" {
			errs = append(errs, fmt.Errorf("weapons[%d]: weapon must not be empty", i))
		}
		if s.SlavedTo < 0 {
			errs = append(errs, fmt.Errorf("weapons[%d]: slaved_to must be >= 0, got %d", i, s.SlavedTo))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("unit def %q validation failed: %w", u.Name, errors.Join(errs...))
	}
	return nil
}

// LoadUnitDefFromBytes parses and validates a single unit definition. Slots
// are not linked to weapon definitions until Registry.Link.
//
// Postcondition: Returns a validated *UnitDef with slot defaults applied, or an error.
func LoadUnitDefFromBytes(data []byte) (*UnitDef, error) {
	u := UnitDef{}
	if err := yaml.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("parsing unit def YAML: %w", err)
	}
	for i := range u.Weapons {
		if u.Weapons[i].MaxAngleDif == 0 {
			u.Weapons[i].MaxAngleDif = 360
		}
		u.Weapons[i].applyDefaults()
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return &u, nil
}

// LoadUnitDefs reads all *.yaml files from dir and returns the parsed unit
// definitions.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid definitions or the first encountered error.
func LoadUnitDefs(dir string) ([]*UnitDef, error) {
	var defs []*UnitDef
	err := forEachYAML(dir, func(path string, data []byte) error {
		u, err := LoadUnitDefFromBytes(data)
		if err != nil {
			return err
		}
		defs = append(defs, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("LoadUnitDefs: %w", err)
	}
	return defs, nil
}
