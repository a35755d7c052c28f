/*
Package graft resolves declarative configuration trees into runtime object graphs.

A configuration is plain JSON-like data. Any mapping may reference a module with
the "require" key; the module's exported value, or the result of calling it with
the mapping's resolved "options", takes the place of the mapping. Modules can be
functions registered from Go code, Go scripts, or other configuration files
(JSON, YAML, TOML, HCL, CUE), which are resolved recursively.

# Concept

Resolution runs in two phases:

  - Load (synchronous): walks the raw tree, resolves every reference through a
    ports.Host relative to the declaring file and attaches the loaded module.
    Structured configuration files are deep-copied before they are loaded, so
    values cached by the host are never mutated.
  - Process (concurrent): converts leaf values, invokes function modules with
    their resolved options, merges the remaining keys of the mapping onto the
    result and flattens embedded configuration files.

# Reserved Keys

  - require: the name of the module, resolved by the host.
  - options: the invocation arguments. A sequence is spread into positional
    arguments; anything else is passed as the single argument. Null, false,
    zero and empty-string options leave the module uninvoked.
  - module: populated by the loader. It is rejected in input.

# Usage

	registry.Register("postgres", func(ctx context.Context, o Options) (*sql.DB, error) {
		return sql.Open("postgres", o.DSN)
	})

	r, err := graft.New(graft.WithSearchPaths("./config"))
	if err != nil {
		log.Fatal(err)
	}

	app, err := r.ResolveFile(ctx, "./config/app.yaml", convert.ExpandEnv(nil))
	if err != nil {
		log.Fatal(err)
	}

With app.yaml:

	db:
	  require: postgres
	  options:
	    dsn: ${DATABASE_URL}
	cache:
	  require: ./cache.json
*/
package graft
