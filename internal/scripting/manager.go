package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// GlobalScope is the reserved scope for scripts shared by every unit.
// CallHook falls back to it when a scope has no VM of its own.
const GlobalScope = "__global__"

// Manager owns one sandboxed LState per scope and exposes hook dispatch.
//
// Each LState is single-threaded; a per-scope mutex serializes calls into the
// same VM while different scopes run concurrently.
type Manager struct {
	mu     sync.RWMutex
	scopes map[string]*vm
	logger *zap.Logger
}

type vm struct {
	mu     sync.Mutex
	L      *lua.LState
	cancel func()
	limit  int
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no scopes loaded.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		scopes: make(map[string]*vm),
		logger: logger,
	}
}

// Load creates a sandboxed VM for scope, registers the engine module, then
// executes every *.lua file in scriptDir in lexicographic order. Loading a
// scope again replaces its VM.
//
// Precondition: scope must be non-empty; scriptDir must be a readable directory.
// Postcondition: the scope VM is registered; returns error on Lua load failure.
func (m *Manager) Load(scope, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, scope, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, scope, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.scopes[scope]; ok {
		old.close()
	}
	m.scopes[scope] = &vm{L: L, cancel: cancel, limit: instLimit}
	m.mu.Unlock()
	return nil
}

// LoadGlobal loads scriptDir into GlobalScope.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.Load(GlobalScope, scriptDir, instLimit)
}

// HasScope reports whether a VM is loaded for scope.
func (m *Manager) HasScope(scope string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.scopes[scope]
	return ok
}

// CallHook calls the named Lua global function in scope's VM, falling back to
// GlobalScope. Returns (LNil, nil) if the hook is not defined or no VM exists.
// Lua runtime errors are logged at Warn level and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.scopes[scope]
	if !ok {
		v = m.scopes[GlobalScope]
	}
	m.mu.RUnlock()

	if v == nil {
		m.logger.Debug("scripting: no VM for scope",
			zap.String("scope", scope),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}
	v.resetBudget()

	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// NewTable creates a table owned by scope's VM (or the global VM), for use as
// a CallHook argument. Returns nil when no VM is available.
func (m *Manager) NewTable(scope string) *lua.LTable {
	m.mu.RLock()
	v, ok := m.scopes[scope]
	if !ok {
		v = m.scopes[GlobalScope]
	}
	m.mu.RUnlock()
	if v == nil {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.L.NewTable()
}

// Close releases every VM.
//
// Postcondition: HasScope reports false for every scope.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for scope, v := range m.scopes {
		v.close()
		delete(m.scopes, scope)
	}
}

// resetBudget gives the next call a fresh instruction budget.
func (v *vm) resetBudget() {
	limit := v.limit
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := newCountingContext(limit)
	v.L.SetContext(ctx)
	v.cancel = cancel
}

func (v *vm) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
	}
	v.L.Close()
}
