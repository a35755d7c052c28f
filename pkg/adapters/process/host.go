package process

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/graft/pkg/codec"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/module"
)

// Prefix marks references served by the process host, e.g. "exec:git-sha".
const Prefix = "exec:"

// EnvPrefix prefixes the environment variables carrying mapping options.
const EnvPrefix = "GRAFT_ARG_"

// Host exposes allow-listed local commands as function modules.
// Only registered names can run; references never reach a shell.
type Host struct {
	mu       sync.RWMutex
	commands map[string]CommandConfig
	baseDir  string
}

// Option configures the host.
type Option func(*Host)

// WithCommands populates the allow-list from a loaded config.
func WithCommands(commands map[string]CommandConfig) Option {
	return func(h *Host) {
		for name, c := range commands {
			c.Name = name
			h.commands[name] = c
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) Option {
	return func(h *Host) {
		h.baseDir = dir
	}
}

// New creates a new process host.
func New(opts ...Option) *Host {
	h := &Host{commands: make(map[string]CommandConfig)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds a trusted command to the allow-list.
func (h *Host) Register(name, command string, args ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands[name] = CommandConfig{Name: name, Command: command, Args: args}
}

// Resolve accepts "exec:<name>" for registered names.
func (h *Host) Resolve(name, _ string) (string, error) {
	if _, ok := h.lookup(name); !ok {
		return "", fmt.Errorf("%s: %w", name, domain.ErrModuleNotFound)
	}
	return name, nil
}

// Load returns a function module running the command.
func (h *Host) Load(_ context.Context, location string) (any, error) {
	c, ok := h.lookup(location)
	if !ok {
		return nil, fmt.Errorf("%s: %w", location, domain.ErrModuleNotFound)
	}
	return module.Func(func(ctx context.Context, args ...any) (any, error) {
		return h.run(ctx, c, args)
	}), nil
}

// List returns the prefixed names of every registered command.
func (h *Host) List(_ context.Context) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.commands))
	for name := range h.commands {
		names = append(names, Prefix+name)
	}
	sort.Strings(names)
	return names, nil
}

func (h *Host) lookup(ref string) (CommandConfig, bool) {
	name, ok := strings.CutPrefix(ref, Prefix)
	if !ok {
		return CommandConfig{}, false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.commands[name]
	return c, ok
}

// run executes c. The invocation arguments are written to stdin as JSON
// (a single value, or an array when there are several); the keys of a
// mapping argument are also exported as GRAFT_ARG_<KEY>. Output that looks
// like JSON is decoded, anything else is returned as trimmed text.
func (h *Host) run(ctx context.Context, c CommandConfig, args []any) (any, error) {
	cmd := exec.CommandContext(ctx, c.Command, c.Args...)
	cmd.Dir = h.baseDir

	env := cmd.Environ()
	for k, v := range c.Environment {
		env = append(env, k+"="+v)
	}
	var input any = args
	if len(args) == 1 {
		input = args[0]
		if m, ok := args[0].(map[string]any); ok {
			for k, v := range m {
				env = append(env, EnvPrefix+strings.ToUpper(k)+"="+envValue(v))
			}
		}
	}
	cmd.Env = env

	stdin, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("cannot encode arguments for %s: %w", c.Name, err)
	}
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: execution failed: %w: %s", c.Name, err, strings.TrimSpace(stderr.String()))
	}

	trimmed := strings.TrimSpace(stdout.String())
	if (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")) {
		if v, err := codec.Decode("stdout.json", []byte(trimmed)); err == nil {
			return v, nil
		}
	}
	return trimmed, nil
}

func envValue(v any) string {
	switch v.(type) {
	case string, int, int64, float64, bool:
		return fmt.Sprintf("%v", v)
	case nil:
		return ""
	default:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", v)
	}
}
