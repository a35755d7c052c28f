// Package module defines how graft invokes function modules.
//
// Any Go function can be a module. Functions written against Func (or any
// Callable) receive the resolved options as-is; other functions are called
// through reflection, with option mappings decoded into their parameter types:
//
//	type ServerOptions struct {
//	    Port int    `mapstructure:"port"`
//	    Host string `mapstructure:"host"`
//	}
//
//	reg.Register("server", func(ctx context.Context, o ServerOptions) (*Server, error) {
//	    return NewServer(o.Host, o.Port), nil
//	})
//
// A module may return an Awaitable (typically a *Future) to settle later; the
// processor awaits it before merging sibling keys into the result.
package module
