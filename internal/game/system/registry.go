package system

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/calendar"
	"github.com/cory-johannsen/charsheet/internal/game/stat"
)

// ErrUnknownSystem is returned by Registry.New for an unregistered ID.
var ErrUnknownSystem = errors.New("rule system is not registered")

// Deps carries the collaborators a Factory may use.
type Deps struct {
	Logger *zap.Logger
	// Calendar overrides the rule system's default start date when non-nil.
	Calendar *calendar.Calendar
	// ContentDir overrides the embedded rules content when non-empty.
	ContentDir string
	// Decorate wraps the rule system's calculator, e.g. to apply house rules.
	Decorate func(stat.Calculator) stat.Calculator
}

// Factory builds a Backend.
type Factory func(deps Deps) (Backend, error)

// Registry maps rule system IDs to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds f under id.
//
// Precondition: id must be non-empty, f non-nil, and id not yet registered.
func (r *Registry) Register(id string, f Factory) {
	if id == "" || f == nil {
		panic("system.Registry.Register: precondition violated: id and factory are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.factories[id]; dup {
		panic(fmt.Sprintf("system.Registry.Register: precondition violated: %q already registered", id))
	}
	r.factories[id] = f
}

// New builds the backend registered under id.
//
// Postcondition: Returns a non-nil Backend, or an error wrapping
// ErrUnknownSystem or the factory's error.
func (r *Registry) New(id string, deps Deps) (Backend, error) {
	r.mu.RLock()
	f, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSystem, id)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	b, err := f(deps)
	if err != nil {
		return nil, fmt.Errorf("building rule system %q: %w", id, err)
	}
	return b, nil
}

// IDs returns the registered IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for id := range r.factories {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
