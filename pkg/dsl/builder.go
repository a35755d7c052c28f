package dsl

import (
	"fmt"

	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/codec"
)

// Builder manages a set of named modules.
type Builder struct {
	names   []string
	modules map[string]any
}

// New creates a new module set builder.
func New() *Builder {
	return &Builder{
		modules: make(map[string]any),
	}
}

// Add registers a module value (a function, a Callable or plain data).
// Adding a name twice keeps the last value.
func (b *Builder) Add(name string, value any) *Builder {
	if _, ok := b.modules[name]; !ok {
		b.names = append(b.names, name)
	}
	b.modules[name] = value
	return b
}

// Config creates a structured module and returns its builder.
// If the module already exists as a builder, it returns the existing one.
func (b *Builder) Config(name string) *NodeBuilder {
	if nb, ok := b.modules[name].(*NodeBuilder); ok {
		return nb
	}
	nb := Map()
	b.Add(name, nb)
	return nb
}

// Build compiles the modules into a memory host.
// Configuration builders must be registered under a structured name
// (e.g. "defaults.json") so the loader resolves inside them.
func (b *Builder) Build() (*memory.Host, error) {
	modules := make(map[string]any, len(b.modules))
	for _, name := range b.names {
		v := b.modules[name]
		if nb, ok := v.(*NodeBuilder); ok {
			if !codec.IsStructured(name) {
				return nil, fmt.Errorf("configuration module %q needs a structured extension (%v)", name, codec.Extensions())
			}
			v = nb.Build()
		}
		modules[name] = v
	}
	return memory.New(modules), nil
}
