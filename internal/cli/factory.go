package cli

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/config"
	"github.com/aretw0/graft/pkg/adapters/file"
	"github.com/aretw0/graft/pkg/adapters/loam"
	"github.com/aretw0/graft/pkg/adapters/process"
	"github.com/aretw0/graft/pkg/adapters/redis"
	"github.com/aretw0/graft/pkg/convert"
	"github.com/aretw0/graft/pkg/host"
	"github.com/aretw0/graft/pkg/observability"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/aretw0/graft/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
)

// Runtime bundles a configured resolver with the resources it holds.
type Runtime struct {
	Resolver *graft.Resolver
	Hosts    host.Chain
	Metrics  *observability.Metrics
	decrypt  ports.Converter
	redact   ports.Converter
	closers  []func() error
}

// Converter returns the leaf converter for a run: secrets are decrypted
// first, then environment references expanded, then sensitive keys masked.
func (r *Runtime) Converter(expandEnv bool) ports.Converter {
	var env ports.Converter
	if expandEnv {
		env = convert.ExpandEnv(nil)
	}
	return convert.Chain(r.decrypt, env, r.redact)
}

// Close releases the backend connections.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewRuntime builds the host chain described by cfg and a resolver on top of it.
// Hosts are consulted in order: registry, commands, vault, redis, file system.
// A nil reg disables metrics.
func NewRuntime(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*Runtime, error) {
	rt := &Runtime{}
	if err := rt.configureConverters(cfg); err != nil {
		return nil, err
	}

	chain := host.Chain{registry.Default()}

	if cfg.Commands != "" {
		commands, err := process.LoadCommands(cfg.Commands)
		if err != nil {
			return nil, err
		}
		chain = append(chain, process.New(process.WithCommands(commands)))
		logger.Debug("Commands loaded", "path", cfg.Commands, "count", len(commands))
	}

	if cfg.Vault.Dir != "" {
		vault, err := loam.Open(cfg.Vault.Dir)
		if err != nil {
			return nil, fmt.Errorf("error opening vault: %w", err)
		}
		chain = append(chain, vault)
		logger.Debug("Vault opened", "dir", cfg.Vault.Dir)
	}

	if cfg.Redis.Addr != "" {
		r := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithPrefix(cfg.Redis.Prefix))
		chain = append(chain, r)
		rt.closers = append(rt.closers, r.Close)
		logger.Debug("Redis host configured", "addr", cfg.Redis.Addr)
	}

	chain = append(chain, file.New(file.WithSearchPaths(cfg.ModulePaths...), file.WithLogger(logger)))
	rt.Hosts = chain

	opts := []graft.Option{
		graft.WithHost(chain),
		graft.WithLogger(logger),
		graft.WithLifecycleHooks(observability.LoggingHooks(logger)),
		graft.WithConverter(rt.Converter(cfg.ExpandEnv)),
	}
	if reg != nil {
		m, err := observability.NewMetrics(reg)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.Metrics = m
		opts = append(opts, graft.WithLifecycleHooks(m.Hooks()))
	}

	resolver, err := graft.New(opts...)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("error initializing resolver: %w", err)
	}
	rt.Resolver = resolver
	return rt, nil
}

func (r *Runtime) configureConverters(cfg *config.Config) error {
	if cfg.Secrets.Key != "" {
		keys := convert.Keys{}
		var err error
		if keys.Active, err = base64.StdEncoding.DecodeString(cfg.Secrets.Key); err != nil {
			return fmt.Errorf("invalid secrets.key: %w", err)
		}
		for i, k := range cfg.Secrets.FallbackKeys {
			b, err := base64.StdEncoding.DecodeString(k)
			if err != nil {
				return fmt.Errorf("invalid secrets.fallback_keys[%d]: %w", i, err)
			}
			keys.Fallback = append(keys.Fallback, b)
		}
		if r.decrypt, err = convert.Decrypt(keys); err != nil {
			return err
		}
	}
	if len(cfg.Redact) > 0 {
		red, err := convert.Redact(cfg.Redact...)
		if err != nil {
			return err
		}
		r.redact = red
	}
	return nil
}
