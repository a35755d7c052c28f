// Package codec decodes structured configuration files by extension.
//
// A reference whose name carries one of the registered extensions is a
// structured configuration file: the loader deep-copies what the host
// returns for it and keeps resolving inside it.
//
// Every codec produces the same plain data model: map[string]any, []any,
// string, bool, int64, float64 and nil.
package codec

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Decoder turns the bytes of a file into plain data.
// name is only used for diagnostics.
type Decoder func(name string, data []byte) (any, error)

var (
	mu       sync.RWMutex
	decoders = map[string]Decoder{
		".json": decodeJSON,
		".yaml": decodeYAML,
		".yml":  decodeYAML,
		".toml": decodeTOML,
		".hcl":  decodeHCL,
		".cue":  decodeCUE,
	}
)

// Register adds or replaces the decoder for ext (with its leading dot).
func Register(ext string, d Decoder) {
	mu.Lock()
	defer mu.Unlock()
	decoders[strings.ToLower(ext)] = d
}

// For returns the decoder matching the extension of name.
func For(name string) (Decoder, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := decoders[strings.ToLower(filepath.Ext(name))]
	return d, ok
}

// IsStructured reports whether name designates a structured configuration file.
func IsStructured(name string) bool {
	_, ok := For(name)
	return ok
}

// Extensions lists the registered extensions in sorted order.
func Extensions() []string {
	mu.RLock()
	defer mu.RUnlock()
	exts := make([]string, 0, len(decoders))
	for ext := range decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Decode decodes data with the codec matching the extension of name.
func Decode(name string, data []byte) (any, error) {
	d, ok := For(name)
	if !ok {
		return nil, fmt.Errorf("no codec for %q", filepath.Ext(name))
	}
	v, err := d(name, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return Normalize(v), nil
}

// Normalize rewrites decoder output into the plain data model.
// Integers and json.Number become int64 or float64; non-string map keys are formatted.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, sub := range val {
			val[k] = Normalize(sub)
		}
		return val
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, sub := range val {
			out[fmt.Sprintf("%v", k)] = Normalize(sub)
		}
		return out
	case []any:
		for i, sub := range val {
			val[i] = Normalize(sub)
		}
		return val
	case []map[string]any:
		out := make([]any, len(val))
		for i, sub := range val {
			out[i] = Normalize(sub)
		}
		return out
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return float64(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		f, _ := val.Float64()
		return f
	default:
		return v
	}
}
