// Package convert provides leaf converters for the process phase.
package convert

import (
	"context"
	"os"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// Identity returns every value unchanged.
func Identity(_ context.Context, v any, _ string, _ *domain.Node) (any, error) {
	return v, nil
}

// ExpandEnv replaces ${VAR} and $VAR in string leaves using lookup.
// Unknown variables expand to the empty string. A nil lookup reads the
// process environment.
func ExpandEnv(lookup func(string) (string, bool)) ports.Converter {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return func(_ context.Context, v any, _ string, _ *domain.Node) (any, error) {
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		return os.Expand(s, func(name string) string {
			val, _ := lookup(name)
			return val
		}), nil
	}
}

// Chain applies converters in order, feeding each the previous output.
func Chain(converters ...ports.Converter) ports.Converter {
	return func(ctx context.Context, v any, key string, parent *domain.Node) (any, error) {
		var err error
		for _, c := range converters {
			if c == nil {
				continue
			}
			if v, err = c(ctx, v, key, parent); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
}
