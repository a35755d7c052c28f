package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/graft/pkg/adapters/memory"
	contract "github.com/aretw0/graft/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryHost_Contract(t *testing.T) {
	data := map[string]any{
		"db.json":  map[string]any{"host": "localhost", "port": 5432},
		"greeting": "hello",
	}

	contract.HostContractTest(t, memory.New(data), data)
}

func TestMemoryHost_Set(t *testing.T) {
	h := memory.New(nil)
	h.Set("late", 42)

	loc, err := h.Resolve("late", "/ignored")
	require.NoError(t, err)
	v, err := h.Load(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}
