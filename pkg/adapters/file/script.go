package file

import (
	"fmt"
	"os"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// ScriptSymbol is the identifier a Go script module must define.
// It may be a function, invoked with the node's options, or any value.
const ScriptSymbol = "Module"

// evalScript interprets a "package main" Go file and returns its Module symbol.
func evalScript(path string) (any, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return nil, fmt.Errorf("script %s is empty", path)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("interpret %s: %w", path, err)
	}

	v, err := i.Eval(ScriptSymbol)
	if err != nil {
		return nil, fmt.Errorf("script %s must define %s: %w", path, ScriptSymbol, err)
	}
	if !v.IsValid() {
		return nil, fmt.Errorf("script %s: %s has no value", path, ScriptSymbol)
	}
	return v.Interface(), nil
}
