package unit

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/armory/internal/game/unitdef"
	"github.com/cory-johannsen/armory/internal/game/weapon"
)

// Manager spawns units and tracks them by ID.
// All methods are safe for concurrent use; each spawn loads its own unit's
// weapons without touching any other unit.
type Manager struct {
	mu     sync.RWMutex
	units  map[string]*Unit
	loader *weapon.Loader
	logger *zap.Logger
}

// NewManager creates an empty Manager that loads weapons with loader.
//
// Precondition: loader and logger must be non-nil.
func NewManager(loader *weapon.Loader, logger *zap.Logger) *Manager {
	return &Manager{
		units:  make(map[string]*Unit),
		loader: loader,
		logger: logger,
	}
}

// Spawn creates a unit from def and loads all of its weapons.
//
// Precondition: def must be non-nil and linked (every slot has a Def).
// Postcondition: on success the unit is registered and holds one initialized
// weapon per slot; on error nothing is registered and the error wraps the
// weapon loader's error (e.g. *weapon.ContentError).
func (m *Manager) Spawn(def *unitdef.UnitDef) (*Unit, error) {
	if def == nil {
		return nil, fmt.Errorf("unit.Manager.Spawn: def must not be nil")
	}
	u := New(uuid.NewString(), def)
	if err := m.loader.LoadWeapons(u, def.Weapons); err != nil {
		m.logger.Error("loading unit weapons",
			zap.String("unit", def.Name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("spawning unit %q: %w", def.Name, err)
	}

	m.mu.Lock()
	m.units[u.ID] = u
	m.mu.Unlock()

	m.logger.Debug("unit spawned",
		zap.String("id", u.ID),
		zap.String("unit", def.Name),
		zap.Int("weapons", len(u.Weapons())),
	)
	return u, nil
}

// Get returns the unit with the given ID.
//
// Postcondition: Returns (u, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Unit, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.units[id]
	return u, ok
}

// Remove deletes a unit by ID.
//
// Postcondition: Returns an error if the unit is not found.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.units[id]; !ok {
		return fmt.Errorf("unit %q not found", id)
	}
	delete(m.units, id)
	return nil
}

// Count returns the number of live units.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.units)
}
