package scripting

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// UnitsSubdir is the directory under a script root holding per-unit scopes.
const UnitsSubdir = "units"

// LoadTree loads a script root laid out as
//
//	root/*.lua               -> GlobalScope
//	root/units/<unit>/*.lua  -> scope <unit>
//
// A missing units directory is not an error.
//
// Postcondition: returns the scopes loaded, global first.
func (m *Manager) LoadTree(root string, instLimit int) ([]string, error) {
	if err := m.LoadGlobal(root, instLimit); err != nil {
		return nil, err
	}
	loaded := []string{GlobalScope}

	entries, err := os.ReadDir(filepath.Join(root, UnitsSubdir))
	if errors.Is(err, fs.ErrNotExist) {
		return loaded, nil
	}
	if err != nil {
		return loaded, fmt.Errorf("scripting: reading unit scripts under %q: %w", root, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := m.Load(e.Name(), filepath.Join(root, UnitsSubdir, e.Name()), instLimit); err != nil {
			return loaded, err
		}
		loaded = append(loaded, e.Name())
	}
	return loaded, nil
}
