package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam/pkg/core"

	"github.com/aretw0/graft/internal/testutils"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost_Contract(t *testing.T) {
	_, repo := testutils.NewVault(t, nil)
	ctx := context.Background()

	docs := []core.Document{
		{
			ID: "db.md",
			Content: `---
host: localhost
port: 5432
---
`,
		},
		{
			ID: "motd.md",
			Content: `---
title: Welcome
---
Hello from the vault`,
		},
	}
	for _, doc := range docs {
		require.NoError(t, repo.Save(ctx, doc))
	}

	tests.HostContractTest(t, New(repo), map[string]any{
		"vault:db":   map[string]any{"host": "localhost", "port": int64(5432)},
		"vault:motd": map[string]any{"title": "Welcome", "content": "Hello from the vault"},
	})
}

func TestHost_IgnoresOtherNames(t *testing.T) {
	_, repo := testutils.NewVault(t, nil)
	h := New(repo)

	for _, name := range []string{"db", "vault:", "redis:db"} {
		_, err := h.Resolve(name, "")
		assert.ErrorIs(t, err, domain.ErrModuleNotFound, name)
	}
}

func TestHost_List_DetectsCollisions(t *testing.T) {
	_, repo := testutils.NewVault(t, map[string]string{
		"dup.md":   "---\ntype: text\n---\nA",
		"dup.json": `{"type": "json"}`,
	})

	_, err := New(repo).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "limits.json"), []byte(`{"max": 9007199254740991}`), 0644))

	h, err := Open(dir)
	require.NoError(t, err)

	loc, err := h.Resolve("vault:limits", "")
	require.NoError(t, err)
	v, err := h.Load(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"max": int64(9007199254740991)}, v, "strict mode keeps large integers exact")
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "db", trimExtension("db.md"))
	assert.Equal(t, "nested/app", trimExtension("nested/app.json"))
	assert.Equal(t, "plain", trimExtension("plain"))
}
