// Package loader implements the synchronous load phase: it walks a raw
// configuration tree, resolves every "require" through a host and attaches
// the loaded modules.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/codec"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
)

// Loader resolves module references of a configuration tree.
type Loader struct {
	host   ports.Host
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for resolution details.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(l *Loader) {
		l.hooks = hooks
	}
}

// New creates a Loader resolving references through host.
func New(host ports.Host, opts ...Option) *Loader {
	l := &Loader{
		host:   host,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns a loaded copy of node, declared in the file at parent.
// node itself is never modified; a nil node loads as an empty mapping.
// The first reference that cannot be resolved aborts the load with a
// *domain.LoadError.
func (l *Loader) Load(ctx context.Context, node *domain.Node, parent string) (*domain.Node, error) {
	root := domain.Mapping()
	if node != nil {
		root = node.Clone()
	}
	if err := l.load(ctx, root, parent, nil); err != nil {
		return nil, err
	}
	return root, nil
}

// load augments n in place. chain holds the structured modules being loaded.
func (l *Loader) load(ctx context.Context, n *domain.Node, parent string, chain []string) error {
	switch n.Kind() {
	case domain.KindSequence:
		for _, item := range n.Items() {
			if item.IsStructured() {
				if err := l.load(ctx, item, parent, chain); err != nil {
					return err
				}
			}
		}
		return nil
	case domain.KindScalar:
		return nil
	}

	if name := n.Require(); name != "" {
		mod, err := l.require(ctx, n, name, parent, chain)
		if err != nil {
			return err
		}
		n.Attach(mod)
	}

	for _, key := range n.Keys() {
		child, _ := n.Field(key)
		if child.IsStructured() {
			if err := l.load(ctx, child, parent, chain); err != nil {
				return err
			}
		}
	}
	if opts := n.Options(); opts != nil && opts.IsStructured() {
		return l.load(ctx, opts, parent, chain)
	}
	return nil
}

func (l *Loader) require(ctx context.Context, n *domain.Node, name, parent string, chain []string) (*domain.Module, error) {
	fail := func(err error) error {
		return &domain.LoadError{Name: name, Parent: parent, Node: n.String(), Err: err}
	}

	root := ""
	if parent != "" {
		root = filepath.Dir(parent)
	}

	l.logger.Debug("loading require", "name", name, "parent", parent)
	location, err := l.host.Resolve(name, root)
	if err != nil {
		location = name
		if !filepath.IsAbs(name) {
			location = filepath.Join(root, name)
		}
		l.logger.Debug("host could not resolve module, using path", "name", name, "location", location, "err", err)
	}

	value, err := l.host.Load(ctx, location)
	if err != nil {
		return nil, fail(err)
	}

	mod := &domain.Module{Name: name, Location: location, Value: value}

	if codec.IsStructured(name) {
		if slices.Contains(chain, location) {
			return nil, fail(fmt.Errorf("%w: %s", domain.ErrCycle, location))
		}

		// Host values may be shared singletons: load a private copy.
		cfg, err := domain.FromValue(value)
		if err != nil {
			return nil, fail(err)
		}
		l.logger.Debug("recursively loading structured module", "name", name, "location", location)
		if err := l.load(ctx, cfg, location, append(slices.Clone(chain), location)); err != nil {
			return nil, err
		}
		mod.Config = cfg
	}

	if l.hooks.OnModuleLoad != nil {
		l.hooks.OnModuleLoad(ctx, &domain.ModuleEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventModuleLoad},
			Name:       name,
			Location:   location,
			Parent:     parent,
			Structured: mod.Structured(),
		})
	}
	return mod, nil
}
