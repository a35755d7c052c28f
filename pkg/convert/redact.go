package convert

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

// Redact returns a converter masking leaves whose key matches any pattern.
func Redact(patterns ...string) (ports.Converter, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(_ context.Context, v any, key string, _ *domain.Node) (any, error) {
		for _, re := range compiled {
			if re.MatchString(key) {
				return Mask, nil
			}
		}
		return v, nil
	}, nil
}
