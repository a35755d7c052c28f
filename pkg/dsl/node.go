package dsl

import (
	"github.com/aretw0/graft/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a mapping.
// Values may be plain data, other builders or *SeqBuilder.
type NodeBuilder struct {
	keys    []string
	fields  map[string]any
	require string
	options any
	hasOpts bool
}

// Map starts an empty mapping.
func Map() *NodeBuilder {
	return &NodeBuilder{fields: make(map[string]any)}
}

// Require starts a mapping referencing the module name.
func Require(name string) *NodeBuilder {
	return Map().Require(name)
}

// Require sets the module reference of the mapping.
func (n *NodeBuilder) Require(name string) *NodeBuilder {
	n.require = name
	return n
}

// Options sets the invocation arguments. A *SeqBuilder or slice is spread
// into positional arguments.
func (n *NodeBuilder) Options(v any) *NodeBuilder {
	n.options = v
	n.hasOpts = true
	return n
}

// Args is shorthand for Options(Seq(args...)).
func (n *NodeBuilder) Args(args ...any) *NodeBuilder {
	return n.Options(Seq(args...))
}

// Set stores a sibling field. Setting a key twice keeps the last value.
func (n *NodeBuilder) Set(key string, v any) *NodeBuilder {
	if _, ok := n.fields[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = v
	return n
}

// Build returns the raw configuration.
func (n *NodeBuilder) Build() map[string]any {
	out := make(map[string]any, len(n.fields)+2)
	for _, k := range n.keys {
		out[k] = build(n.fields[k])
	}
	if n.require != "" {
		out[domain.KeyRequire] = n.require
	}
	if n.hasOpts {
		out[domain.KeyOptions] = build(n.options)
	}
	return out
}

// Node returns the configuration as a validated tree.
// Sibling fields keep the order they were set in.
func (n *NodeBuilder) Node() (*domain.Node, error) {
	node := domain.Mapping()
	if n.require != "" {
		if err := node.Set(domain.KeyRequire, domain.Scalar(n.require)); err != nil {
			return nil, err
		}
	}
	if n.hasOpts {
		opts, err := domain.FromValue(build(n.options))
		if err != nil {
			return nil, err
		}
		if err := node.Set(domain.KeyOptions, opts); err != nil {
			return nil, err
		}
	}
	for _, k := range n.keys {
		child, err := domain.FromValue(build(n.fields[k]))
		if err != nil {
			return nil, err
		}
		if err := node.Set(k, child); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// SeqBuilder builds a sequence.
type SeqBuilder struct {
	items []any
}

// Seq starts a sequence holding items.
func Seq(items ...any) *SeqBuilder {
	return &SeqBuilder{items: items}
}

// Append adds items to the sequence.
func (s *SeqBuilder) Append(items ...any) *SeqBuilder {
	s.items = append(s.items, items...)
	return s
}

// Build returns the raw sequence.
func (s *SeqBuilder) Build() []any {
	out := make([]any, len(s.items))
	for i, item := range s.items {
		out[i] = build(item)
	}
	return out
}

func build(v any) any {
	switch b := v.(type) {
	case *NodeBuilder:
		return b.Build()
	case *SeqBuilder:
		return b.Build()
	default:
		return v
	}
}
