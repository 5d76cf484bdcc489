package weapon

import (
	"errors"
	"fmt"
)

// ErrAlreadyInitialized is returned by Init for a weapon that has already been
// initialized.
var ErrAlreadyInitialized = errors.New("weapon already initialized")

// ContentError reports unit content that cannot be loaded, such as a slave
// reference to a slot that does not precede the referencing slot.
type ContentError struct {
	// Unit is the owning unit's definition name.
	Unit string
	// Slot is the 1-based ordinal of the offending slot.
	Slot int
	// SlavedTo is the 1-based ordinal the slot referenced.
	SlavedTo int
}

// Error implements error.
func (e *ContentError) Error() string {
	return fmt.Sprintf("bad weapon slave in %s: slot %d references slot %d", e.Unit, e.Slot, e.SlavedTo)
}
