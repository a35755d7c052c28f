// Package host composes module hosts.
package host

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/graft/pkg/adapters/file"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/aretw0/graft/pkg/registry"
)

// Chain tries its members in order.
// Resolve returns the first location a member resolves; Load returns the
// first value a member loads without reporting not-found.
// Any other error stops the chain.
type Chain []ports.Host

// Resolve implements ports.Host.
func (c Chain) Resolve(name, baseDir string) (string, error) {
	for _, h := range c {
		loc, err := h.Resolve(name, baseDir)
		if err == nil {
			return loc, nil
		}
		if !errors.Is(err, domain.ErrModuleNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrModuleNotFound, name)
}

// Load implements ports.Host.
func (c Chain) Load(ctx context.Context, location string) (any, error) {
	for _, h := range c {
		v, err := h.Load(ctx, location)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, domain.ErrModuleNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, location)
}

// List merges the names of every member implementing ports.Lister.
func (c Chain) List(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	for _, h := range c {
		l, ok := h.(ports.Lister)
		if !ok {
			continue
		}
		names, err := l.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			seen[n] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// Default returns the host used when none is configured:
// the process-wide registry followed by the file system.
func Default(opts ...file.Option) Chain {
	return Chain{registry.Default(), file.New(opts...)}
}
