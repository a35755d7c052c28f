package ports

import (
	"context"

	"github.com/aretw0/graft/pkg/domain"
)

// Resolver is the surface transport adapters (HTTP, MCP) depend on.
type Resolver interface {
	// Resolve loads and processes raw, declared at parent.
	Resolve(ctx context.Context, raw any, parent string, convert Converter) (any, error)

	// Load runs the load phase only. It is used for introspection.
	Load(ctx context.Context, raw any, parent string) (*domain.Node, error)
}
