package cli_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/graft/internal/cli"
	"github.com/aretw0/graft/internal/config"
	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/adapters/redis"
	"github.com/aretw0/graft/pkg/convert"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestResolve_FileAndSearchPaths(t *testing.T) {
	dir := t.TempDir()
	modules := filepath.Join(dir, "modules")
	writeFile(t, modules, "defaults.yaml", "timeout: 30\n")
	app := writeFile(t, dir, "app.json", `{
		"http": {"require": "defaults.yaml", "port": 80},
		"user": "${GRAFT_TEST_USER}"
	}`)
	t.Setenv("GRAFT_TEST_USER", "alice")

	cfg := config.Default()
	cfg.ModulePaths = []string{modules}
	rt, err := cli.NewRuntime(&cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	defer rt.Close()

	var out bytes.Buffer
	require.NoError(t, cli.Resolve(context.Background(), rt, cli.ResolveOptions{Path: app, ExpandEnv: true}, &out))
	assert.JSONEq(t, `{"http": {"timeout": 30}, "user": "alice"}`, out.String())

	out.Reset()
	require.NoError(t, cli.Resolve(context.Background(), rt, cli.ResolveOptions{Path: app}, &out))
	assert.JSONEq(t, `{"http": {"timeout": 30}, "user": "${GRAFT_TEST_USER}"}`, out.String())
}

func TestNewRuntime_Backends(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	commands := writeFile(t, dir, "commands.yaml", `
commands:
  - name: hostname
    command: echo
    args: [box]
`)

	mr := miniredis.RunT(t)
	seed := redis.New(mr.Addr(), "", 0)
	require.NoError(t, seed.Save(context.Background(), "limits.json", []byte(`{"max": 5}`)))
	seed.Close()

	cfg := config.Default()
	cfg.Commands = commands
	cfg.Redis.Addr = mr.Addr()

	reg := prometheus.NewRegistry()
	rt, err := cli.NewRuntime(&cfg, logging.NewNop(), reg)
	require.NoError(t, err)
	defer rt.Close()
	require.NotNil(t, rt.Metrics)

	app := writeFile(t, dir, "app.yaml", `
host:
  require: exec:hostname
  options: {}
limits:
  require: redis:limits.json
`)

	var out bytes.Buffer
	require.NoError(t, cli.Resolve(context.Background(), rt, cli.ResolveOptions{Path: app}, &out))
	assert.JSONEq(t, `{"host": "box", "limits": {"max": 5}}`, out.String())

	names, err := rt.Hosts.List(context.Background())
	require.NoError(t, err)
	assert.Contains(t, names, "exec:hostname")
	assert.Contains(t, names, "redis:limits.json")

	_, err = cli.NewRuntime(&cfg, logging.NewNop(), reg)
	assert.Error(t, err, "metrics cannot be registered twice on the same registry")
}

func TestNewRuntime_BadCommandsFile(t *testing.T) {
	cfg := config.Default()
	cfg.Commands = writeFile(t, t.TempDir(), "commands.yaml", "commands: [\n")
	_, err := cli.NewRuntime(&cfg, logging.NewNop(), nil)
	assert.Error(t, err)
}

func TestGraph(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "db.json", `{"host": "localhost"}`)
	app := writeFile(t, dir, "app.json", `{"db": {"require": "./db.json"}}`)

	cfg := config.Default()
	rt, err := cli.NewRuntime(&cfg, logging.NewNop(), nil)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, cli.Graph(context.Background(), rt, app, &out))
	assert.Contains(t, out.String(), "graph TD")
	assert.Contains(t, out.String(), `"./db.json"`)
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX environment")
	}
}

func TestResolve_SecretsAndRedaction(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	sealed, err := convert.Encrypt(convert.Keys{Active: key}, "hunter2")
	require.NoError(t, err)

	dir := t.TempDir()
	app := writeFile(t, dir, "app.json", `{"db": {"password": "`+sealed+`", "token": "abc", "user": "app"}}`)

	cfg := config.Default()
	cfg.Secrets.Key = base64.StdEncoding.EncodeToString(key)
	rt, err := cli.NewRuntime(&cfg, logging.NewNop(), nil)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, cli.Resolve(context.Background(), rt, cli.ResolveOptions{Path: app}, &out))
	assert.JSONEq(t, `{"db": {"password": "hunter2", "token": "abc", "user": "app"}}`, out.String())

	cfg.Redact = []string{"password", "token"}
	rt, err = cli.NewRuntime(&cfg, logging.NewNop(), nil)
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, cli.Resolve(context.Background(), rt, cli.ResolveOptions{Path: app}, &out))
	assert.JSONEq(t, `{"db": {"password": "***", "token": "***", "user": "app"}}`, out.String())
}

func TestNewRuntime_InvalidSecretsKey(t *testing.T) {
	cfg := config.Default()
	cfg.Secrets.Key = "not base64!"
	_, err := cli.NewRuntime(&cfg, logging.NewNop(), nil)
	assert.Error(t, err)

	cfg.Secrets.Key = base64.StdEncoding.EncodeToString([]byte("too short"))
	_, err = cli.NewRuntime(&cfg, logging.NewNop(), nil)
	assert.Error(t, err)
}
