package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/graft/pkg/codec"
	"github.com/aretw0/graft/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Prefix marks references served by Redis.
const Prefix = "redis:"

// Host implements ports.Host using Redis.
//
// A reference "redis:<name>" reads the key <keyPrefix><name>. Payloads of
// names with a structured extension are decoded by pkg/codec; any other
// payload is returned as a string.
// Modules are published with Save, which also maintains a sorted-set index
// used by List.
type Host struct {
	client  *backend.Client
	prefix  string
	ttl     time.Duration
	timeout time.Duration
}

type Option func(*Host)

// WithTTL sets the expiration for published modules.
func WithTTL(ttl time.Duration) Option {
	return func(h *Host) {
		h.ttl = ttl
	}
}

// WithPrefix sets the key prefix for modules.
func WithPrefix(prefix string) Option {
	return func(h *Host) {
		h.prefix = prefix
	}
}

// WithTimeout bounds Resolve, which has no caller context.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		h.timeout = d
	}
}

// New creates a new Redis host with options.
func New(address, password string, db int, opts ...Option) *Host {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis host from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Host {
	h := &Host{
		client:  client,
		prefix:  "graft:module:",
		ttl:     0, // No expiration by default
		timeout: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *Host) key(name string) string {
	return h.prefix + name
}

func (h *Host) indexKey() string {
	return h.prefix + "index"
}

// Resolve implements ports.Host.
func (h *Host) Resolve(name, _ string) (string, error) {
	id, ok := strings.CutPrefix(name, Prefix)
	if !ok || id == "" {
		return "", fmt.Errorf("%w: %s is not a redis reference", domain.ErrModuleNotFound, name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	n, err := h.client.Exists(ctx, h.key(id)).Result()
	if err != nil {
		return "", fmt.Errorf("failed to query redis: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: %s", domain.ErrModuleNotFound, name)
	}
	return Prefix + id, nil
}

// Load implements ports.Host.
func (h *Host) Load(ctx context.Context, location string) (any, error) {
	id, ok := strings.CutPrefix(location, Prefix)
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: %s is not a redis location", domain.ErrModuleNotFound, location)
	}

	val, err := h.client.Get(ctx, h.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, location)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	if codec.IsStructured(id) {
		return codec.Decode(id, val)
	}
	return string(val), nil
}

// Save publishes value under name (without Prefix).
// Strings and byte slices are stored as they are, anything else as JSON.
func (h *Host) Save(ctx context.Context, name string, value any) error {
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal module %s: %w", name, err)
		}
		data = b
	}

	pipe := h.client.Pipeline()

	// Use 0 for no expiration if ttl is not set.
	pipe.Set(ctx, h.key(name), data, h.ttl)

	// Score = Now + TTL. If TTL = 0, Score = +Inf (approx).
	score := float64(time.Now().Add(h.ttl).Unix())
	if h.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, h.indexKey(), backend.Z{
		Score:  score,
		Member: name,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Delete removes a published module.
func (h *Host) Delete(ctx context.Context, name string) error {
	pipe := h.client.Pipeline()

	pipe.Del(ctx, h.key(name))
	pipe.ZRem(ctx, h.indexKey(), name)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the references of published modules, pruning expired entries.
func (h *Host) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	// ZREMRANGEBYSCORE key -inf (now)
	err := h.client.ZRemRangeByScore(ctx, h.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired modules: %w", err)
	}

	names, err := h.client.ZRange(ctx, h.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list modules: %w", err)
	}

	out := make([]string, len(names))
	for i, n := range names {
		out[i] = Prefix + n
	}
	return out, nil
}

// Close closes the redis client.
func (h *Host) Close() error {
	return h.client.Close()
}
