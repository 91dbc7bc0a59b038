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

// globalKey is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when a rule system has no VM of its own.
const globalKey = "__global__"

type vm struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per rule system and dispatches hooks.
//
// Manager is safe for concurrent CallHook after all Load calls complete.
// Each LState is single-threaded; calls into the same VM are serialized.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no VMs.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: precondition violated: logger must be non-nil")
	}
	return &Manager{vms: make(map[string]*vm), logger: logger}
}

// LoadSystem creates a sandboxed VM for systemID, registers the charsheet
// module, then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: systemID must be non-empty; scriptDir must be a readable directory.
// Postcondition: The VM replaces any previous one for systemID; returns an
// error on Lua load failure.
func (m *Manager) LoadSystem(systemID, scriptDir string, instLimit int) error {
	return m.loadInto(systemID, scriptDir, instLimit)
}

// LoadGlobal creates the shared VM used by every rule system without scripts
// of its own.
//
// Precondition: scriptDir must be a readable directory.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalKey, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState(instLimit)
	m.RegisterModules(L, key)
	for _, path := range luaFiles {
		cancel := Rearm(L, instLimit)
		err := L.DoFile(path)
		cancel()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.vms[key]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.vms[key] = &vm{L: L, limit: instLimit}
	m.mu.Unlock()
	m.logger.Info("scripting: scripts loaded",
		zap.String("system", key),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

func (m *Manager) lookup(systemID string) *vm {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vms[systemID]; ok {
		return v
	}
	return m.vms[globalKey]
}

// HasHook reports whether the VM serving systemID defines hook.
func (m *Manager) HasHook(systemID, hook string) bool {
	v := m.lookup(systemID)
	if v == nil {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.L.GetGlobal(hook).Type() == lua.LTFunction
}

// CallHook calls the named Lua global function in systemID's VM, falling
// back to the global VM. Returns (LNil, nil) if the hook is not defined or no
// VM exists. Lua runtime errors are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(systemID, hook string, args ...lua.LValue) (lua.LValue, error) {
	v := m.lookup(systemID)
	if v == nil {
		m.logger.Debug("scripting: no VM for system",
			zap.String("system", systemID),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	fn := v.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, nil
	}

	cancel := Rearm(v.L, v.limit)
	defer cancel()
	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("system", systemID),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
		delete(m.vms, key)
	}
}
