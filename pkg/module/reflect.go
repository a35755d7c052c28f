package module

import (
	"context"
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// reflectFunc invokes an arbitrary Go function.
//
// A leading context.Context parameter receives ctx. Missing arguments are
// zero values and surplus ones are dropped, so a function module can ignore
// options it does not care about. Arguments that are not assignable to the
// parameter type are decoded with mapstructure, which turns option mappings
// into structs.
type reflectFunc struct {
	fn reflect.Value
}

func (r reflectFunc) Call(ctx context.Context, args ...any) (any, error) {
	t := r.fn.Type()
	numIn := t.NumIn()
	fixed := numIn
	if t.IsVariadic() {
		fixed--
	}

	in := make([]reflect.Value, 0, numIn+len(args))
	param := 0
	if numIn > 0 && t.In(0) == contextType {
		in = append(in, reflect.ValueOf(ctx))
		param = 1
	}

	next := 0
	for ; param < fixed; param++ {
		var arg any
		if next < len(args) {
			arg = args[next]
		}
		next++
		v, err := convertArg(arg, t.In(param))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", param, err)
		}
		in = append(in, v)
	}

	if t.IsVariadic() {
		elem := t.In(numIn - 1).Elem()
		for ; next < len(args); next++ {
			v, err := convertArg(args[next], elem)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", next, err)
			}
			in = append(in, v)
		}
	}

	return unpack(r.fn.Call(in))
}

func convertArg(arg any, target reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(target), nil
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(target) {
		return v, nil
	}
	if isNumeric(v.Kind()) && isNumeric(target.Kind()) {
		return convertNumber(v, target)
	}

	out := reflect.New(target)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out.Interface(),
		WeaklyTypedInput: true,
	})
	if err != nil {
		return reflect.Value{}, err
	}
	if err := decoder.Decode(arg); err != nil {
		return reflect.Value{}, fmt.Errorf("cannot use %T as %s: %w", arg, target, err)
	}
	return out.Elem(), nil
}

// convertNumber converts between numeric kinds, refusing lossy conversions
// such as 2.7 into an int or 300 into a uint8.
func convertNumber(v reflect.Value, target reflect.Type) (reflect.Value, error) {
	out := reflect.New(target).Elem()
	lossy := false

	switch {
	case isFloat(v.Kind()) && (isInt(target.Kind()) || isUint(target.Kind())):
		f := v.Float()
		switch {
		case f != math.Trunc(f) || math.IsInf(f, 0):
			lossy = true
		case isInt(target.Kind()):
			lossy = f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f))
		default:
			lossy = f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f))
		}
	case isInt(v.Kind()) && isInt(target.Kind()):
		lossy = out.OverflowInt(v.Int())
	case isInt(v.Kind()) && isUint(target.Kind()):
		lossy = v.Int() < 0 || out.OverflowUint(uint64(v.Int()))
	case isUint(v.Kind()) && isUint(target.Kind()):
		lossy = out.OverflowUint(v.Uint())
	case isUint(v.Kind()) && isInt(target.Kind()):
		lossy = v.Uint() > math.MaxInt64 || out.OverflowInt(int64(v.Uint()))
	}
	if lossy {
		return reflect.Value{}, fmt.Errorf("cannot use %v as %s without losing precision", v.Interface(), target)
	}

	out.Set(v.Convert(target))
	return out, nil
}

func unpack(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type() == errorType {
			return nil, asError(out[0])
		}
		return valueOf(out[0]), nil
	case 2:
		if out[1].Type() != errorType {
			return nil, fmt.Errorf("second return value must be an error, got %s", out[1].Type())
		}
		if err := asError(out[1]); err != nil {
			return nil, err
		}
		return valueOf(out[0]), nil
	default:
		return nil, fmt.Errorf("function modules return at most (value, error), got %d values", len(out))
	}
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

func valueOf(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}

func isNumeric(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || isFloat(k)
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
