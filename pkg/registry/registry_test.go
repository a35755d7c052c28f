package registry_test

import (
	"context"
	"testing"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/module"
	contract "github.com/aretw0/graft/pkg/ports/tests"
	"github.com/aretw0/graft/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Contract(t *testing.T) {
	r := registry.NewRegistry()
	r.Register("defaults", map[string]any{"retries": 3})
	r.Register("banner", "hello")

	contract.HostContractTest(t, r, map[string]any{
		"defaults": map[string]any{"retries": 3},
		"banner":   "hello",
	})
}

func TestRegistry_Execute(t *testing.T) {
	r := registry.NewRegistry()
	r.Register("sum", func(a, b int) int { return a + b })
	r.Register("later", module.Func(func(ctx context.Context, args ...any) (any, error) {
		return module.Resolved("done"), nil
	}))
	r.Register("data", map[string]any{})

	ctx := context.Background()

	out, err := r.Execute(ctx, "sum", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, out)

	out, err = r.Execute(ctx, "later")
	require.NoError(t, err)
	assert.Equal(t, "done", out, "awaitable results are settled")

	_, err = r.Execute(ctx, "data")
	assert.ErrorIs(t, err, domain.ErrNotCallable)

	_, err = r.Execute(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)
}

func TestRegistry_Unregister(t *testing.T) {
	r := registry.NewRegistry()
	r.Register("tmp", 1)
	r.Unregister("tmp")
	r.Unregister("never-registered")

	_, err := r.Resolve("tmp", "")
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)
}

func TestDefault(t *testing.T) {
	registry.Register("registry_test.default", true)
	t.Cleanup(func() { registry.Default().Unregister("registry_test.default") })

	v, ok := registry.Default().Lookup("registry_test.default")
	require.True(t, ok)
	assert.Equal(t, true, v)
}
