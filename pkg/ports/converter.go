package ports

import (
	"context"

	"github.com/aretw0/graft/pkg/domain"
)

// Converter transforms a scalar leaf before it lands in the resolved value.
// key is the mapping key holding the value and parent the mapping itself.
// Converters run concurrently and must not mutate parent.
type Converter func(ctx context.Context, value any, key string, parent *domain.Node) (any, error)
