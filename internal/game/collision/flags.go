// Package collision defines the bitmask used by weapons to suppress collision
// and avoidance checks against categories of objects.
package collision

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Flags is a set of collision suppression bits. A set bit means the weapon
// ignores that category.
type Flags uint32

const (
	// NoEnemies ignores enemy units.
	NoEnemies Flags = 1 << iota
	// NoFriendlies ignores allied units.
	NoFriendlies
	// NoFeatures ignores map features.
	NoFeatures
	// NoNeutrals ignores neutral units.
	NoNeutrals
	// NoGround ignores terrain.
	NoGround
	// NoCloaked ignores cloaked units.
	NoCloaked
)

// NoUnits ignores every unit regardless of allegiance.
const NoUnits = NoEnemies | NoFriendlies | NoNeutrals

var flagNames = map[string]Flags{
	"noEnemies":    NoEnemies,
	"noFriendlies": NoFriendlies,
	"noFeatures":   NoFeatures,
	"noNeutrals":   NoNeutrals,
	"noGround":     NoGround,
	"noCloaked":    NoCloaked,
	"noUnits":      NoUnits,
}

// ParseFlag returns the flag with the given name.
//
// Postcondition: ok is true iff name is a known flag name.
func ParseFlag(name string) (Flags, bool) {
	f, ok := flagNames[name]
	return f, ok
}

// Has reports whether every bit of other is set in f.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

// String renders the set bits as a "|"-joined list of names.
func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for name, bit := range flagNames {
		if bit == NoUnits {
			continue
		}
		if f.Has(bit) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// UnmarshalYAML accepts either a list of flag names or a raw integer mask.
func (f *Flags) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var raw uint32
		if err := value.Decode(&raw); err != nil {
			return fmt.Errorf("collision flags: %w", err)
		}
		*f = Flags(raw)
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return fmt.Errorf("collision flags: %w", err)
		}
		var out Flags
		for _, name := range names {
			bit, ok := ParseFlag(name)
			if !ok {
				return fmt.Errorf("collision flags: unknown flag %q", name)
			}
			out |= bit
		}
		*f = out
		return nil
	default:
		return fmt.Errorf("collision flags: expected list or integer at line %d", value.Line)
	}
}

// MarshalYAML writes the mask as a raw integer.
func (f Flags) MarshalYAML() (interface{}, error) {
	return uint32(f), nil
}
