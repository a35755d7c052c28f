package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/graft/pkg/domain"
)

// Host implements ports.Host using an in-memory map.
// Names are their own locations. It is meant for tests and embedding.
type Host struct {
	mu      sync.RWMutex
	modules map[string]any
}

// New creates a Host serving the provided modules.
func New(modules map[string]any) *Host {
	m := make(map[string]any, len(modules))
	for k, v := range modules {
		m[k] = v
	}
	return &Host{modules: m}
}

// Set adds or replaces a module.
func (h *Host) Set(name string, value any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.modules[name] = value
}

// Resolve implements ports.Host.
func (h *Host) Resolve(name, _ string) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.modules[name]; !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrModuleNotFound, name)
	}
	return name, nil
}

// Load returns the stored value itself, so every call yields the same instance.
func (h *Host) Load(_ context.Context, location string) (any, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.modules[location]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, location)
	}
	return v, nil
}

// List returns all module names.
func (h *Host) List(_ context.Context) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	keys := make([]string, 0, len(h.modules))
	for k := range h.modules {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
