package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/codec"
	"github.com/aretw0/graft/pkg/domain"
)

// Host implements ports.Host on top of the local file system.
//
// Names starting with "/", "./" or "../" are paths relative to the declaring
// file. Bare names are looked up in the declaring directory first and then in
// every search path, in order.
//
// Structured files are decoded by pkg/codec, .go files are evaluated as
// scripts and anything else is returned as its text content.
// Loaded values are cached per location and shared between calls.
type Host struct {
	paths  []string
	logger *slog.Logger
	cache  bool

	mu     sync.Mutex
	loaded map[string]any
}

// Option configures a Host.
type Option func(*Host)

// WithSearchPaths appends directories used to look up bare names.
func WithSearchPaths(paths ...string) Option {
	return func(h *Host) {
		for _, p := range paths {
			if p = strings.TrimSpace(p); p != "" {
				h.paths = append(h.paths, p)
			}
		}
	}
}

// WithLogger sets the logger used for resolution details.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithoutCache makes every Load read the file again.
func WithoutCache() Option {
	return func(h *Host) {
		h.cache = false
	}
}

// New creates a file Host.
func New(opts ...Option) *Host {
	h := &Host{
		logger: logging.NewNop(),
		cache:  true,
		loaded: make(map[string]any),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SearchPaths returns the configured search paths.
func (h *Host) SearchPaths() []string {
	return append([]string(nil), h.paths...)
}

// Resolve implements ports.Host.
func (h *Host) Resolve(name, baseDir string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", domain.ErrModuleNotFound)
	}

	if filepath.IsAbs(name) {
		return h.existing(name)
	}
	if isRelative(name) {
		return h.existing(filepath.Join(baseDir, name))
	}

	candidates := make([]string, 0, len(h.paths)+1)
	if baseDir != "" {
		candidates = append(candidates, baseDir)
	}
	candidates = append(candidates, h.paths...)

	for _, dir := range candidates {
		if loc, err := h.existing(filepath.Join(dir, name)); err == nil {
			h.logger.Debug("resolved module on search path", "name", name, "location", loc)
			return loc, nil
		}
	}
	return "", fmt.Errorf("%w: %s (searched %s)", domain.ErrModuleNotFound, name, strings.Join(candidates, ", "))
}

// Load implements ports.Host.
func (h *Host) Load(_ context.Context, location string) (any, error) {
	location = filepath.Clean(location)

	if h.cache {
		h.mu.Lock()
		defer h.mu.Unlock()
		if v, ok := h.loaded[location]; ok {
			return v, nil
		}
	}

	v, err := h.read(location)
	if err != nil {
		return nil, err
	}

	if h.cache {
		h.loaded[location] = v
	}
	h.logger.Debug("loaded module file", "location", location)
	return v, nil
}

// Forget drops location from the cache so the next Load reads it again.
func (h *Host) Forget(location string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.loaded, filepath.Clean(location))
}

func (h *Host) read(location string) (any, error) {
	if filepath.Ext(location) == ".go" {
		if _, err := os.Stat(location); err != nil {
			return nil, notFound(location, err)
		}
		return evalScript(location)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, notFound(location, err)
	}
	if codec.IsStructured(location) {
		return codec.Decode(location, data)
	}
	return string(data), nil
}

func (h *Host) existing(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", notFound(path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrModuleNotFound, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path), nil
	}
	return abs, nil
}

func notFound(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", domain.ErrModuleNotFound, path)
	}
	return fmt.Errorf("failed to read %s: %w", path, err)
}

func isRelative(name string) bool {
	return name == "." || name == ".." ||
		strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") ||
		strings.HasPrefix(name, `.\`) || strings.HasPrefix(name, `..\`)
}
