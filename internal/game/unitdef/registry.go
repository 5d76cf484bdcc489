package unitdef

import (
	"encoding/hex"
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

// Registry holds all loaded weapon and unit definitions indexed by name.
type Registry struct {
	weapons map[string]*WeaponDef
	units   map[string]*UnitDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		weapons: make(map[string]*WeaponDef),
		units:   make(map[string]*UnitDef),
	}
}

// RegisterWeapon adds d to the registry and caches its behaviour tag.
//
// Precondition: d must not be nil.
// Postcondition: Weapon(d.Name) returns d; returns error if d.Name already registered.
func (r *Registry) RegisterWeapon(d *WeaponDef) error {
	if _, exists := r.weapons[d.Name]; exists {
		return fmt.Errorf("unitdef: Registry.RegisterWeapon: weapon %q already registered", d.Name)
	}
	d.resolveKind()
	r.weapons[d.Name] = d
	return nil
}

// RegisterUnit adds u to the registry. Its slots are resolved by Link.
//
// Precondition: u must not be nil.
// Postcondition: Unit(u.Name) returns u; returns error if u.Name already registered.
func (r *Registry) RegisterUnit(u *UnitDef) error {
	if _, exists := r.units[u.Name]; exists {
		return fmt.Errorf("unitdef: Registry.RegisterUnit: unit %q already registered", u.Name)
	}
	r.units[u.Name] = u
	return nil
}

// Link resolves every unit slot's weapon name to its registered WeaponDef and
// computes the slot's effective fuel usage.
//
// Postcondition: on nil error, every slot of every unit has a non-nil Def.
func (r *Registry) Link() error {
	for _, u := range r.AllUnits() {
		for i := range u.Weapons {
			s := &u.Weapons[i]
			d, ok := r.weapons[s.Weapon]
			if !ok {
				return fmt.Errorf("unitdef: unit %q slot %d references unknown weapon %q", u.Name, i+1, s.Weapon)
			}
			s.Def = d
			s.FuelUsage = d.FuelUsage
			if s.FuelUsageOverride != nil {
				s.FuelUsage = *s.FuelUsageOverride
			}
		}
	}
	return nil
}

// Weapon returns the WeaponDef with the given name, or nil if not found.
func (r *Registry) Weapon(name string) *WeaponDef {
	return r.weapons[name]
}

// Unit returns the UnitDef with the given name and whether it was found.
//
// Postcondition: ok is true iff the name is registered.
func (r *Registry) Unit(name string) (*UnitDef, bool) {
	u, ok := r.units[name]
	return u, ok
}

// AllWeapons returns all registered weapon definitions sorted by name.
func (r *Registry) AllWeapons() []*WeaponDef {
	out := make([]*WeaponDef, 0, len(r.weapons))
	for _, d := range r.weapons {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AllUnits returns all registered unit definitions sorted by name.
func (r *Registry) AllUnits() []*UnitDef {
	out := make([]*UnitDef, 0, len(r.units))
	for _, u := range r.units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Checksum returns a hex-encoded BLAKE2b-256 digest over every registered
// definition in name order. Two registries holding the same content produce
// the same checksum regardless of registration order.
func (r *Registry) Checksum() (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("unitdef: creating hash: %w", err)
	}
	for _, d := range r.AllWeapons() {
		data, err := yaml.Marshal(d)
		if err != nil {
			return "", fmt.Errorf("unitdef: encoding weapon %q: %w", d.Name, err)
		}
		h.Write([]byte("weapon\x00"))
		h.Write(data)
	}
	for _, u := range r.AllUnits() {
		data, err := yaml.Marshal(u)
		if err != nil {
			return "", fmt.Errorf("unitdef: encoding unit %q: %w", u.Name, err)
		}
		h.Write([]byte("unit\x00"))
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// LoadRegistry loads weapon and unit definitions from the given directories,
// registers them and links unit slots.
//
// Precondition: weaponsDir and unitsDir are readable directories.
// Postcondition: Returns a linked Registry or the first error encountered.
func LoadRegistry(weaponsDir, unitsDir string) (*Registry, error) {
	weapons, err := LoadWeaponDefs(weaponsDir)
	if err != nil {
		return nil, err
	}
	units, err := LoadUnitDefs(unitsDir)
	if err != nil {
		return nil, err
	}
	return BuildRegistry(weapons, units)
}

// BuildRegistry registers the given definitions and links unit slots.
//
// Postcondition: Returns a linked Registry or the first error encountered.
func BuildRegistry(weapons []*WeaponDef, units []*UnitDef) (*Registry, error) {
	r := NewRegistry()
	for _, d := range weapons {
		if err := r.RegisterWeapon(d); err != nil {
			return nil, err
		}
	}
	for _, u := range units {
		if err := r.RegisterUnit(u); err != nil {
			return nil, err
		}
	}
	if err := r.Link(); err != nil {
		return nil, err
	}
	return r, nil
}
