package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/graft/internal/presentation/graph"
	"github.com/aretw0/graft/internal/presentation/tui"
)

// ResolveOptions configures a resolve run.
type ResolveOptions struct {
	Path      string
	ExpandEnv bool
	Pretty    bool
}

// Resolve resolves the file at opts.Path and writes the result as JSON to w.
func Resolve(ctx context.Context, rt *Runtime, opts ResolveOptions, w io.Writer) error {
	value, err := rt.Resolver.ResolveFile(ctx, opts.Path, rt.Converter(opts.ExpandEnv))
	if err != nil {
		return err
	}

	var render func(string) (string, error)
	if opts.Pretty {
		render, err = tui.NewRenderer()
		if err != nil {
			return err
		}
	}
	out, err := tui.FormatJSON(value, opts.Pretty, render)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Graph writes the Mermaid diagram of the references reachable from path.
func Graph(ctx context.Context, rt *Runtime, path string, w io.Writer) error {
	loaded, err := rt.Resolver.LoadFile(ctx, path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, graph.GenerateMermaid(loaded, path))
	return err
}

// PrettyDefault reports whether output should be highlighted by default.
func PrettyDefault() bool {
	return tui.IsTerminal(os.Stdout)
}
