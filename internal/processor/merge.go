package processor

import (
	"fmt"
	"maps"
	"reflect"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// siblings returns the processed keys to assign onto an invocation result.
func siblings(result map[string]any) map[string]any {
	out := make(map[string]any, len(result))
	for k, v := range result {
		if !domain.IsReserved(k) {
			out[k] = v
		}
	}
	return out
}

// extend assigns the siblings of result onto out. Siblings win collisions.
// out is never mutated unless it is a pointer to a struct, which receives
// the siblings through its mapstructure tags.
func extend(out any, result map[string]any) (any, error) {
	extra := siblings(result)
	if len(extra) == 0 {
		return out, nil
	}

	switch target := out.(type) {
	case nil:
		return extra, nil
	case map[string]any:
		merged := maps.Clone(target)
		maps.Copy(merged, extra)
		return merged, nil
	}

	rv := reflect.ValueOf(out)
	switch {
	case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		merged := make(map[string]any, rv.Len()+len(extra))
		iter := rv.MapRange()
		for iter.Next() {
			merged[iter.Key().String()] = iter.Value().Interface()
		}
		maps.Copy(merged, extra)
		return merged, nil

	case rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct:
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           out,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(extra); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMergeTarget, err)
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: %T", domain.ErrMergeTarget, out)
}
