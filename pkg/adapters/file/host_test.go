package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/graft/pkg/adapters/file"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/module"
	contract "github.com/aretw0/graft/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFileHost_Contract(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "db.json"), `{"host":"localhost","port":5432}`)
	writeFile(t, filepath.Join(dir, "cache.yaml"), "ttl: 30\n")
	writeFile(t, filepath.Join(dir, "motd.txt"), "hello")

	h := file.New(file.WithSearchPaths(dir))
	contract.HostContractTest(t, h, map[string]any{
		"db.json":    map[string]any{"host": "localhost", "port": int64(5432)},
		"cache.yaml": map[string]any{"ttl": int64(30)},
		"motd.txt":   "hello",
	})
}

func TestFileHost_Resolve(t *testing.T) {
	root := t.TempDir()
	cfgDir := filepath.Join(root, "cfg")
	libDir := filepath.Join(root, "lib")
	writeFile(t, filepath.Join(cfgDir, "local.json"), `{}`)
	writeFile(t, filepath.Join(cfgDir, "shared.json"), `{"from":"cfg"}`)
	writeFile(t, filepath.Join(libDir, "shared.json"), `{"from":"lib"}`)
	writeFile(t, filepath.Join(libDir, "only-lib.json"), `{}`)
	require.NoError(t, os.MkdirAll(filepath.Join(libDir, "dir.json"), 0755))

	h := file.New(file.WithSearchPaths(libDir, "  "))
	assert.Equal(t, []string{libDir}, h.SearchPaths())

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "./local.json", want: filepath.Join(cfgDir, "local.json")},
		{name: "../lib/only-lib.json", want: filepath.Join(libDir, "only-lib.json")},
		{name: filepath.Join(libDir, "shared.json"), want: filepath.Join(libDir, "shared.json")},
		{name: "shared.json", want: filepath.Join(cfgDir, "shared.json")},
		{name: "only-lib.json", want: filepath.Join(libDir, "only-lib.json")},
		{name: "./missing.json", wantErr: true},
		{name: "dir.json", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := h.Resolve(tt.name, cfgDir)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrModuleNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, loc)
		})
	}
}

func TestFileHost_Cache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	writeFile(t, path, `{"v":1}`)

	ctx := context.Background()
	h := file.New()

	first, err := h.Load(ctx, path)
	require.NoError(t, err)

	writeFile(t, path, `{"v":2}`)
	second, err := h.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, first, second, "cached value is returned until forgotten")

	h.Forget(path)
	third, err := h.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"v": int64(2)}, third)

	uncached := file.New(file.WithoutCache())
	v, err := uncached.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"v": int64(2)}, v)
}

func TestFileHost_DecodeError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	writeFile(t, path, `{"v":`)

	_, err := file.New().Load(context.Background(), path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrModuleNotFound)
}

const sumScript = `package main

func Module(opts map[string]interface{}) map[string]interface{} {
	a, _ := opts["a"].(int64)
	b, _ := opts["b"].(int64)
	return map[string]interface{}{"sum": a + b}
}
`

const dataScript = `package main

var Module = map[string]interface{}{"name": "scripted"}
`

func TestFileHost_Scripts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sum.go"), sumScript)
	writeFile(t, filepath.Join(dir, "data.go"), dataScript)
	writeFile(t, filepath.Join(dir, "empty.go"), "  \n")
	writeFile(t, filepath.Join(dir, "nomodule.go"), "package main\n")

	ctx := context.Background()
	h := file.New()

	t.Run("Function", func(t *testing.T) {
		v, err := h.Load(ctx, filepath.Join(dir, "sum.go"))
		require.NoError(t, err)

		fn, ok := module.From(v)
		require.True(t, ok, "script functions are callable")
		out, err := fn.Call(ctx, map[string]any{"a": int64(1), "b": int64(2)})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"sum": int64(3)}, out)
	})

	t.Run("Value", func(t *testing.T) {
		v, err := h.Load(ctx, filepath.Join(dir, "data.go"))
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"name": "scripted"}, v)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := h.Load(ctx, filepath.Join(dir, "empty.go"))
		assert.Error(t, err)
	})

	t.Run("Missing Symbol", func(t *testing.T) {
		_, err := h.Load(ctx, filepath.Join(dir, "nomodule.go"))
		assert.Error(t, err)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := h.Load(ctx, filepath.Join(dir, "absent.go"))
		assert.ErrorIs(t, err, domain.ErrModuleNotFound)
	})
}
