// Package processor implements the asynchronous process phase: it turns a
// loaded configuration tree into plain values, invoking function modules
// and flattening structured modules on the way.
package processor

import (
	"context"
	"log/slog"
	"math"
	"reflect"
	"time"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/module"
	"github.com/aretw0/graft/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// Processor resolves loaded trees.
type Processor struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used for invocation details.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Processor) {
		p.hooks = hooks
	}
}

// New creates a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func identity(_ context.Context, v any, _ string, _ *domain.Node) (any, error) {
	return v, nil
}

// Process resolves node into plain data.
//
// Children of sequences and mappings are resolved concurrently; the first
// failure cancels the others and is returned as it is. A nil convert keeps
// leaves unchanged. A scalar node resolves to its own value without
// conversion.
func (p *Processor) Process(ctx context.Context, node *domain.Node, convert ports.Converter) (any, error) {
	if node == nil {
		return nil, nil
	}
	if convert == nil {
		convert = identity
	}
	return p.process(ctx, node, convert)
}

func (p *Processor) process(ctx context.Context, n *domain.Node, convert ports.Converter) (any, error) {
	switch n.Kind() {
	case domain.KindSequence:
		return p.sequence(ctx, n, convert)
	case domain.KindMapping:
		return p.mapping(ctx, n, convert)
	default:
		return n.Scalar(), nil
	}
}

// child resolves a structured child or converts a leaf held under key.
func (p *Processor) child(ctx context.Context, v *domain.Node, key string, parent *domain.Node, convert ports.Converter) (any, error) {
	if v.IsStructured() {
		return p.process(ctx, v, convert)
	}
	return convert(ctx, v.Scalar(), key, parent)
}

func (p *Processor) sequence(ctx context.Context, n *domain.Node, convert ports.Converter) (any, error) {
	items := n.Items()
	out := make([]any, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		g.Go(func() error {
			v, err := p.process(gctx, item, convert)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type slot struct {
	key   string
	value any
}

func (p *Processor) mapping(ctx context.Context, n *domain.Node, convert ports.Converter) (any, error) {
	keys := n.Keys()
	slots := make([]slot, 0, len(keys)+2)
	children := make([]*domain.Node, 0, len(keys)+2)

	if name := n.Require(); name != "" {
		slots = append(slots, slot{key: domain.KeyRequire})
		children = append(children, domain.Scalar(name))
	}
	if opts := n.Options(); opts != nil {
		slots = append(slots, slot{key: domain.KeyOptions})
		children = append(children, opts)
	}
	for _, key := range keys {
		child, _ := n.Field(key)
		slots = append(slots, slot{key: key})
		children = append(children, child)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range slots {
		g.Go(func() error {
			v, err := p.child(gctx, children[i], slots[i].key, n, convert)
			if err != nil {
				return err
			}
			slots[i].value = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(map[string]any, len(slots))
	for _, s := range slots {
		result[s.key] = s.value
	}

	mod := n.Module()
	if mod == nil {
		return result, nil
	}

	if fn, ok := module.From(mod.Value); ok && n.Options() != nil && truthy(result[domain.KeyOptions]) {
		return p.invoke(ctx, mod, fn, n.Options(), result)
	}

	if mod.Structured() {
		p.logger.Debug("recursively processing structured module", "name", mod.Name)
		return p.process(ctx, mod.Config, convert)
	}

	return mod.Value, nil
}

// truthy reports whether processed options ask for an invocation.
// nil, false, zero numbers and the empty string do not.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

func (p *Processor) invoke(ctx context.Context, mod *domain.Module, fn module.Callable, opts *domain.Node, result map[string]any) (any, error) {
	var args []any
	if opts.Kind() == domain.KindSequence {
		args = result[domain.KeyOptions].([]any)
	} else {
		args = []any{result[domain.KeyOptions]}
	}

	p.logger.Debug("calling function module", "name", mod.Name, "location", mod.Location, "args", len(args))
	if p.hooks.OnInvoke != nil {
		p.hooks.OnInvoke(ctx, &domain.InvokeEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventInvoke},
			Name:      mod.Name,
			Location:  mod.Location,
			Args:      args,
		})
	}

	start := time.Now()
	out, err := fn.Call(ctx, args...)
	if err == nil {
		out, err = module.Await(ctx, out)
	}

	if p.hooks.OnInvokeReturn != nil {
		e := &domain.InvokeEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventInvokeReturn},
			Name:      mod.Name,
			Location:  mod.Location,
			Output:    out,
			IsError:   err != nil,
			Duration:  time.Since(start),
		}
		if err != nil {
			e.Output = err.Error()
		}
		p.hooks.OnInvokeReturn(ctx, e)
	}

	if err != nil {
		return nil, err
	}
	return extend(out, result)
}
