// Package unitdef provides the immutable design-time unit and weapon
// definitions, their YAML loaders, and the definition registry.
package unitdef

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/armory/internal/game/collision"
)

// Sound is one entry of a weapon's fire sound set. Asset resolution happens
// elsewhere; ID is the already-resolved sound handle.
type Sound struct {
	Name   string  `yaml:"name"`
	ID     int     `yaml:"id"`
	Volume float64 `yaml:"volume"`
}

// WeaponDef is the shared design-time configuration of a weapon. It is never
// mutated after registration.
type WeaponDef struct {
	Name string `yaml:"name"`
	// Type is the behaviour identifier, e.g. "Cannon" or "BeamLaser".
	Type string `yaml:"type"`

	Reload             float64 `yaml:"reload"` // seconds
	Range              float64 `yaml:"range"`
	HeightMod          float64 `yaml:"height_mod"`
	ProjectileSpeed    float64 `yaml:"projectile_speed"`
	DamageAreaOfEffect float64 `yaml:"damage_area_of_effect"`
	CraterAreaOfEffect float64 `yaml:"crater_area_of_effect"`
	Accuracy           float64 `yaml:"accuracy"`
	SprayAngle         float64 `yaml:"spray_angle"`

	SalvoSize          int     `yaml:"salvo_size"`
	SalvoDelay         float64 `yaml:"salvo_delay"` // seconds
	ProjectilesPerShot int     `yaml:"projectiles_per_shot"`
	StockpileTime      float64 `yaml:"stockpile_time"` // seconds

	MetalCost  float64 `yaml:"metal_cost"`
	EnergyCost float64 `yaml:"energy_cost"`
	FireSound  []Sound `yaml:"fire_sound"`

	OnlyForward       bool    `yaml:"only_forward"`
	MaxAngle          float64 `yaml:"max_angle"` // degrees
	FuelUsage         float64 `yaml:"fuel_usage"`
	TargetBorder      float64 `yaml:"target_border"`
	CylinderTargeting float64 `yaml:"cylinder_targeting"`
	MinIntensity      float64 `yaml:"min_intensity"`
	HeightBoostFactor float64 `yaml:"height_boost_factor"`

	CollisionFlags collision.Flags `yaml:"collision_flags"`
	AvoidNeutral   bool            `yaml:"avoid_neutral"`
	AvoidFriendly  bool            `yaml:"avoid_friendly"`
	AvoidFeature   bool            `yaml:"avoid_feature"`
	AvoidGround    bool            `yaml:"avoid_ground"`
	// SubMissile marks weapons launchable from under water.
	SubMissile bool `yaml:"sub_missile"`

	kind WeaponKind
}

// weaponDefaults mirrors the engine defaults applied before YAML decoding so
// that omitted fields keep their design-time meaning.
func weaponDefaults() WeaponDef {
	return WeaponDef{
		Reload:             1,
		SalvoSize:          1,
		ProjectilesPerShot: 1,
		MaxAngle:           180,
		HeightBoostFactor:  -1,
		AvoidNeutral:       true,
		AvoidFriendly:      true,
		AvoidFeature:       true,
		AvoidGround:        true,
	}
}

// Kind returns the behaviour tag for the definition's type identifier. The
// tag is cached at registration; unregistered definitions are parsed on demand.
//
// Postcondition: ok is false iff Type is not a recognized identifier.
func (d *WeaponDef) Kind() (WeaponKind, bool) {
	if d.kind != KindUnknown {
		return d.kind, true
	}
	return ParseWeaponKind(d.Type)
}

func (d *WeaponDef) resolveKind() {
	d.kind, _ = ParseWeaponKind(d.Type)
}

// Validate checks the numeric invariants of the definition. An unrecognized
// Type is not a validation failure; it loads as an inert weapon.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *WeaponDef) Validate() error {
	var errs []error
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if d.Reload < 0 {
		errs = append(errs, fmt.Errorf("reload must be >= 0, got %v", d.Reload))
	}
	if d.SalvoDelay < 0 {
		errs = append(errs, fmt.Errorf("salvo_delay must be >= 0, got %v", d.SalvoDelay))
	}
	if d.StockpileTime < 0 {
		errs = append(errs, fmt.Errorf("stockpile_time must be >= 0, got %v", d.StockpileTime))
	}
	if d.SalvoSize < 1 {
		errs = append(errs, fmt.Errorf("salvo_size must be >= 1, got %d", d.SalvoSize))
	}
	if d.ProjectilesPerShot < 1 {
		errs = append(errs, fmt.Errorf("projectiles_per_shot must be >= 1, got %d", d.ProjectilesPerShot))
	}
	if d.Range < 0 {
		errs = append(errs, fmt.Errorf("range must be >= 0, got %v", d.Range))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon def %q validation failed: %w", d.Name, errors.Join(errs...))
	}
	return nil
}

// LoadWeaponDefFromBytes parses and validates a single weapon definition.
//
// Postcondition: Returns a validated *WeaponDef or an error.
func LoadWeaponDefFromBytes(data []byte) (*WeaponDef, error) {
	d := weaponDefaults()
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing weapon def YAML: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadWeaponDefs reads all *.yaml files from dir and returns the parsed
// weapon definitions.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid definitions or the first encountered error.
func LoadWeaponDefs(dir string) ([]*WeaponDef, error) {
	var defs []*WeaponDef
	err := forEachYAML(dir, func(path string, data []byte) error {
		d, err := LoadWeaponDefFromBytes(data)
		if err != nil {
			return err
		}
		defs = append(defs, d)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("LoadWeaponDefs: %w", err)
	}
	return defs, nil
}

func forEachYAML(dir string, fn func(path string, data []byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cannot read directory %q: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read file %q: %w", path, err)
		}
		if err := fn(path, data); err != nil {
			return fmt.Errorf("loading %q: %w", path, err)
		}
	}
	return nil
}
