package module

import (
	"context"
	"reflect"
)

// Callable is a module that can be invoked with resolved options.
type Callable interface {
	Call(ctx context.Context, args ...any) (any, error)
}

// Func adapts a plain function to Callable.
// It is the preferred signature for modules registered from Go code.
type Func func(ctx context.Context, args ...any) (any, error)

// Call implements Callable.
func (f Func) Call(ctx context.Context, args ...any) (any, error) {
	return f(ctx, args...)
}

// From reports whether v can be invoked and returns it as a Callable.
// Besides Callable implementations it accepts any Go function, directly or
// wrapped in a reflect.Value (as returned by script interpreters).
func From(v any) (Callable, bool) {
	switch c := v.(type) {
	case nil:
		return nil, false
	case Callable:
		return c, true
	case reflect.Value:
		if c.IsValid() && c.Kind() == reflect.Func && !c.IsNil() {
			return reflectFunc{fn: c}, true
		}
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func && !rv.IsNil() {
		return reflectFunc{fn: rv}, true
	}
	return nil, false
}

// IsCallable reports whether From would accept v.
func IsCallable(v any) bool {
	_, ok := From(v)
	return ok
}
