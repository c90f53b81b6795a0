package bot

import (
	"slices"
	"sync"
)

// Registry collects modules in registration order. Registration happens from
// package init() functions, which Go runs sequentially, but the mutex keeps
// the registry safe for tests that register concurrently.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a module. Order is preserved: it determines command
// registration and shutdown order.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, m)
}

// Modules returns a copy of the registered modules, so callers cannot
// reorder or grow the registry's backing slice.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.modules)
}

// The global registry backs init()-time self-registration: importing a
// module package for side effects is all it takes to enable the module.
var globalRegistry = NewRegistry()

// Register adds a module to the global registry.
func Register(m Module) {
	globalRegistry.Register(m)
}

// Modules returns the modules in the global registry.
func Modules() []Module {
	return globalRegistry.Modules()
}

// ResetGlobalRegistry replaces the global registry with an empty one. Tests
// use it to isolate registration state between cases.
func ResetGlobalRegistry() {
	globalRegistry = NewRegistry()
}
