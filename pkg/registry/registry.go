package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/module"
)

// Registry manages modules registered from Go code.
// It implements ports.Host: registered names resolve to themselves.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]any
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]any),
	}
}

var global = NewRegistry()

// Default returns the process-wide registry used by graft.Resolve.
func Default() *Registry {
	return global
}

// Register adds a module to the default registry.
func Register(name string, value any) {
	global.Register(name, value)
}

// Register adds a module to the registry.
// If a module with the same name exists, it is overwritten.
func (r *Registry) Register(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[name] = value
}

// Unregister removes a module. Unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.modules, name)
}

// Lookup returns the module registered under name.
func (r *Registry) Lookup(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.modules[name]
	return v, ok
}

// Resolve implements ports.Host. The base directory plays no role.
func (r *Registry) Resolve(name, _ string) (string, error) {
	if _, ok := r.Lookup(name); !ok {
		return "", fmt.Errorf("%w: %s is not registered", domain.ErrModuleNotFound, name)
	}
	return name, nil
}

// Load implements ports.Host.
func (r *Registry) Load(_ context.Context, location string) (any, error) {
	v, ok := r.Lookup(location)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not registered", domain.ErrModuleNotFound, location)
	}
	return v, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Execute looks up a module by name and invokes it with args.
// Returns an error if the module is not found or not callable.
func (r *Registry) Execute(ctx context.Context, name string, args ...any) (any, error) {
	v, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not registered", domain.ErrModuleNotFound, name)
	}

	fn, ok := module.From(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotCallable, name)
	}
	out, err := fn.Call(ctx, args...)
	if err != nil {
		return nil, err
	}
	return module.Await(ctx, out)
}
