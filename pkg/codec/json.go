package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

func decodeJSON(_ string, data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected content after the top-level value")
	}
	return numbers(v), nil
}

// numbers keeps integers integral instead of the float64 encoding/json picks.
func numbers(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, sub := range val {
			val[k] = numbers(sub)
		}
		return val
	case []any:
		for i, sub := range val {
			val[i] = numbers(sub)
		}
		return val
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
