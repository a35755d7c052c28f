package domain

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// Kind tags the shape of a Node.
type Kind uint8

const (
	// KindScalar holds a string, number, bool, nil or any opaque value.
	KindScalar Kind = iota
	// KindSequence holds an ordered list of nodes.
	KindSequence
	// KindMapping holds string keys and the reserved keyword slots.
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is a unit of the configuration tree.
//
// Reserved keywords are not stored among the sibling fields of a mapping:
// "require" and "options" live in dedicated slots and "module" can only be
// set by the loader through Attach.
type Node struct {
	kind   Kind
	scalar any
	items  []*Node
	keys   []string
	fields map[string]*Node

	require string
	options *Node
	module  *Module
}

// Scalar creates a scalar node.
func Scalar(v any) *Node {
	return &Node{kind: KindScalar, scalar: v}
}

// Sequence creates a sequence node holding items.
func Sequence(items ...*Node) *Node {
	n := &Node{kind: KindSequence, items: make([]*Node, 0, len(items))}
	n.Append(items...)
	return n
}

// Mapping creates an empty mapping node.
func Mapping() *Node {
	return &Node{kind: KindMapping, fields: make(map[string]*Node)}
}

// Kind returns the variant of the node.
func (n *Node) Kind() Kind {
	return n.kind
}

// IsStructured reports whether the node is a sequence or a mapping.
func (n *Node) IsStructured() bool {
	return n.kind != KindScalar
}

// Scalar returns the payload of a scalar node, nil for other kinds.
func (n *Node) Scalar() any {
	return n.scalar
}

// Items returns the elements of a sequence node.
func (n *Node) Items() []*Node {
	return n.items
}

// Append adds items to a sequence node. Nil items become null scalars.
func (n *Node) Append(items ...*Node) {
	for _, item := range items {
		if item == nil {
			item = Scalar(nil)
		}
		n.items = append(n.items, item)
	}
}

// Keys returns the sibling keys of a mapping in insertion order.
// Reserved keywords are never part of it.
func (n *Node) Keys() []string {
	keys := make([]string, len(n.keys))
	copy(keys, n.keys)
	return keys
}

// Field returns the sibling field stored under key.
func (n *Node) Field(key string) (*Node, bool) {
	f, ok := n.fields[key]
	return f, ok
}

// Require returns the module reference of a mapping, or "" when it has none.
func (n *Node) Require() string {
	return n.require
}

// Options returns the invocation arguments of a mapping, or nil when absent.
func (n *Node) Options() *Node {
	return n.options
}

// Module returns the module attached by the loader, or nil.
func (n *Node) Module() *Module {
	return n.module
}

// Attach binds a loaded module to the mapping. It is meant for the loader only.
func (n *Node) Attach(m *Module) {
	n.module = m
}

// Set stores v under key on a mapping node.
// "require" must be a non-empty string and "module" is rejected.
func (n *Node) Set(key string, v *Node) error {
	if n.kind != KindMapping {
		return fmt.Errorf("cannot set %q on a %s node", key, n.kind)
	}
	if v == nil {
		v = Scalar(nil)
	}

	switch key {
	case KeyModule:
		return fmt.Errorf("%w: %q is populated by the loader", ErrReservedKey, KeyModule)
	case KeyRequire:
		name, ok := v.scalar.(string)
		if v.kind != KindScalar || !ok || name == "" {
			return fmt.Errorf("%w (got %v)", ErrInvalidRequire, v.Value())
		}
		n.require = name
	case KeyOptions:
		n.options = v
	default:
		if _, exists := n.fields[key]; !exists {
			n.keys = append(n.keys, key)
		}
		n.fields[key] = v
	}
	return nil
}

// Clone returns a deep structural copy of the tree.
// Attached modules are shared: their values belong to the host.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		kind:    n.kind,
		scalar:  n.scalar,
		require: n.require,
		module:  n.module,
	}
	switch n.kind {
	case KindSequence:
		c.items = make([]*Node, len(n.items))
		for i, item := range n.items {
			c.items[i] = item.Clone()
		}
	case KindMapping:
		c.keys = n.Keys()
		c.fields = make(map[string]*Node, len(n.fields))
		for k, f := range n.fields {
			c.fields[k] = f.Clone()
		}
		c.options = n.options.Clone()
	}
	return c
}

// Value returns the raw JSON-like form of the tree.
// The loaded module is not part of it.
func (n *Node) Value() any {
	switch n.kind {
	case KindSequence:
		out := make([]any, len(n.items))
		for i, item := range n.items {
			out[i] = item.Value()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(n.fields)+2)
		for k, f := range n.fields {
			out[k] = f.Value()
		}
		if n.require != "" {
			out[KeyRequire] = n.require
		}
		if n.options != nil {
			out[KeyOptions] = n.options.Value()
		}
		return out
	default:
		return n.scalar
	}
}

// MarshalJSON serializes the raw form of the node.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value())
}

// String renders the node as JSON, falling back to fmt for opaque scalars.
func (n *Node) String() string {
	b, err := json.Marshal(n.Value())
	if err != nil {
		return fmt.Sprintf("%v", n.Value())
	}
	return string(b)
}

// FromValue converts JSON-like Go data into a fresh Node tree.
// The result never aliases v: maps and slices are always copied.
func FromValue(v any) (*Node, error) {
	switch val := v.(type) {
	case *Node:
		if val == nil {
			return Scalar(nil), nil
		}
		return val.Clone(), nil
	case nil:
		return Scalar(nil), nil
	case map[string]any:
		n := Mapping()
		for _, k := range sortedKeys(val) {
			if err := setValue(n, k, val[k]); err != nil {
				return nil, err
			}
		}
		return n, nil
	case map[any]any:
		// YAML decoders produce these for non-string keys.
		normalized := make(map[string]any, len(val))
		for k, sub := range val {
			normalized[fmt.Sprintf("%v", k)] = sub
		}
		return FromValue(normalized)
	case []any:
		n := Sequence()
		for i, item := range val {
			child, err := FromValue(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			n.Append(child)
		}
		return n, nil
	case []byte:
		return Scalar(val), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := Sequence()
		for i := 0; i < rv.Len(); i++ {
			child, err := FromValue(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			n.Append(child)
		}
		return n, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Scalar(v), nil
		}
		normalized := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			normalized[iter.Key().String()] = iter.Value().Interface()
		}
		return FromValue(normalized)
	default:
		return Scalar(v), nil
	}
}

func setValue(n *Node, key string, raw any) error {
	child, err := FromValue(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return n.Set(key, child)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
