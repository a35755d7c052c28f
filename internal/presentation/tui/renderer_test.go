package tui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatJSON(t *testing.T) {
	out, err := FormatJSON(map[string]any{"a": 1}, false, nil)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", out)

	var got string
	out, err = FormatJSON([]any{"x"}, true, func(md string) (string, error) {
		got = md
		return "rendered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "rendered", out)
	assert.True(t, strings.HasPrefix(got, "```json\n"))

	_, err = FormatJSON(func() {}, false, nil)
	assert.Error(t, err)
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer()
	require.NoError(t, err)

	out, err := render("```json\n{\"port\": 8080}\n```\n")
	require.NoError(t, err)
	assert.Contains(t, out, "8080")
}

func TestIsTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/")
}
