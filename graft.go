package graft

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/graft/internal/loader"
	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/internal/processor"
	"github.com/aretw0/graft/pkg/adapters/file"
	"github.com/aretw0/graft/pkg/convert"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/host"
	"github.com/aretw0/graft/pkg/module"
	"github.com/aretw0/graft/pkg/ports"
)

// Resolver is the high-level entry point for the graft library.
// It wires a host, the loader and the processor together.
// A Resolver is safe for concurrent use.
type Resolver struct {
	host      ports.Host
	convert   ports.Converter
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	paths     []string
	loader    *loader.Loader
	processor *processor.Processor
}

// Option defines a functional option for configuring the Resolver.
type Option func(*Resolver)

// WithHost injects a custom module host, bypassing the default registry + file system chain.
func WithHost(h ports.Host) Option {
	return func(r *Resolver) {
		r.host = h
	}
}

// WithLogger sets a custom structured logger for the resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
// Calling it several times merges the hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Resolver) {
		r.hooks = r.hooks.Merge(hooks)
	}
}

// WithConverter sets the converter used when Resolve is called without one.
func WithConverter(c ports.Converter) Option {
	return func(r *Resolver) {
		r.convert = c
	}
}

// WithSearchPaths adds directories where the default file host looks up bare names.
// It has no effect together with WithHost.
func WithSearchPaths(paths ...string) Option {
	return func(r *Resolver) {
		r.paths = append(r.paths, paths...)
	}
}

// New initializes a Resolver.
// Without WithHost it resolves references through the global registry first
// and the file system second.
func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}

	// Ensure logger is initialized so components never receive nil
	if r.logger == nil {
		r.logger = logging.NewNop()
	}

	if r.host == nil {
		for _, p := range r.paths {
			info, err := os.Stat(p)
			if err != nil {
				return nil, fmt.Errorf("invalid search path: %w", err)
			}
			if !info.IsDir() {
				return nil, fmt.Errorf("invalid search path: %s is not a directory", p)
			}
		}
		r.host = host.Default(file.WithSearchPaths(r.paths...), file.WithLogger(r.logger))
	}

	if r.convert == nil {
		r.convert = convert.Identity
	}

	r.loader = loader.New(r.host,
		loader.WithLogger(r.logger),
		loader.WithLifecycleHooks(r.hooks),
	)
	r.processor = processor.New(
		processor.WithLogger(r.logger),
		processor.WithLifecycleHooks(r.hooks),
	)
	return r, nil
}

// Host returns the module host in use.
func (r *Resolver) Host() ports.Host {
	return r.host
}

// Load runs the load phase on raw, declared in the file at parent.
// raw is JSON-like Go data or a *domain.Node; it is never modified.
func (r *Resolver) Load(ctx context.Context, raw any, parent string) (*domain.Node, error) {
	node, err := domain.FromValue(raw)
	if err != nil {
		return nil, err
	}
	return r.loader.Load(ctx, node, parent)
}

// Process runs the process phase on a loaded tree.
// A nil convert falls back to the resolver's converter.
func (r *Resolver) Process(ctx context.Context, node *domain.Node, convert ports.Converter) (any, error) {
	if convert == nil {
		convert = r.convert
	}
	return r.processor.Process(ctx, node, convert)
}

// Resolve loads and processes raw, declared in the file at parent.
func (r *Resolver) Resolve(ctx context.Context, raw any, parent string, convert ports.Converter) (any, error) {
	loaded, err := r.Load(ctx, raw, parent)
	if err != nil {
		return nil, err
	}
	return r.Process(ctx, loaded, convert)
}

// ResolveAsync runs Resolve in the background.
func (r *Resolver) ResolveAsync(ctx context.Context, raw any, parent string, convert ports.Converter) *module.Future {
	return module.Go(ctx, func(ctx context.Context) (any, error) {
		return r.Resolve(ctx, raw, parent, convert)
	})
}

// ResolveFile loads the configuration file at path through the host and
// resolves it, with the file itself as the parent of its references.
func (r *Resolver) ResolveFile(ctx context.Context, path string, convert ports.Converter) (any, error) {
	loaded, err := r.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return r.Process(ctx, loaded, convert)
}

// LoadFile runs the load phase on the configuration file at path.
func (r *Resolver) LoadFile(ctx context.Context, path string) (*domain.Node, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	raw, err := r.host.Load(ctx, absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return r.Load(ctx, raw, absPath)
}

var (
	defaultOnce     sync.Once
	defaultResolver *Resolver
)

// Default returns the resolver used by the package-level functions.
func Default() *Resolver {
	defaultOnce.Do(func() {
		// New only fails on invalid search paths, which the default has none of.
		defaultResolver, _ = New()
	})
	return defaultResolver
}

// Resolve loads and processes raw with the default resolver.
func Resolve(ctx context.Context, raw any, parent string, convert ports.Converter) (any, error) {
	return Default().Resolve(ctx, raw, parent, convert)
}
