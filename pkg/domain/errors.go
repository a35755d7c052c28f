package domain

import (
	"errors"
	"fmt"
)

// ErrModuleNotFound is returned by hosts when a reference or location is unknown to them.
var ErrModuleNotFound = errors.New("module not found")

// ErrReservedKey is returned when raw input uses the reserved "module" key.
var ErrReservedKey = errors.New("reserved key")

// ErrInvalidRequire is returned when "require" is not a non-empty string.
var ErrInvalidRequire = errors.New("require must be a non-empty string")

// ErrMergeTarget is returned when sibling keys cannot be assigned onto an invocation result.
var ErrMergeTarget = errors.New("invocation result cannot receive sibling keys")

// ErrNotCallable is returned when a value cannot be invoked as a function module.
var ErrNotCallable = errors.New("module is not callable")

// LoadError reports a reference that could not be located or loaded.
// It is fatal for the whole resolution and is never retried.
type LoadError struct {
	Name   string // Reference as written in the configuration
	Parent string // Location of the file declaring the reference
	Node   string // Serialized content of the offending node
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load module %s defined in %s (`%s`): %v", e.Name, e.Parent, e.Node, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrCycle is returned when a structured module requires itself, directly or not.
var ErrCycle = errors.New("circular module reference")
