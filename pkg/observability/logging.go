package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/graft/pkg/domain"
)

// LoggingHooks returns lifecycle hooks writing debug records to logger.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModuleLoad: func(ctx context.Context, e *domain.ModuleEvent) {
			logger.DebugContext(ctx, "Module Loaded",
				"name", e.Name,
				"location", e.Location,
				"parent", e.Parent,
				"structured", e.Structured,
			)
		},
		OnInvoke: func(ctx context.Context, e *domain.InvokeEvent) {
			logger.DebugContext(ctx, "Invoke", "name", e.Name, "args", len(e.Args))
		},
		OnInvokeReturn: func(ctx context.Context, e *domain.InvokeEvent) {
			if e.IsError {
				logger.DebugContext(ctx, "Invoke Return (Error)", "name", e.Name, "err", e.Output, "duration", e.Duration)
			} else {
				logger.DebugContext(ctx, "Invoke Return (Success)", "name", e.Name, "duration", e.Duration)
			}
		},
	}
}
