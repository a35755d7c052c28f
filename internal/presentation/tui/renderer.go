package tui

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return nil, err
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// FormatJSON renders v as indented JSON. With pretty set it is wrapped in a
// fenced block and highlighted through render.
func FormatJSON(v any, pretty bool, render func(string) (string, error)) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("cannot encode result: %w", err)
	}
	if !pretty || render == nil {
		return string(b) + "\n", nil
	}
	return render("```json\n" + string(b) + "\n```\n")
}
