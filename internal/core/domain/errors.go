package domain

import (
	"errors"
	"fmt"
)

// Validation failures. These are detected before any side effect and map
// to client-fault HTTP statuses.
var (
	ErrNotFound         = errors.New("file not found in registry")
	ErrInvalidExtension = errors.New("file extension not allowed")
	ErrReadonly         = errors.New("file is read-only")
)

// ErrNoSuchContainer marks an engine lookup for an id the engine does
// not know.
var ErrNoSuchContainer = errors.New("no such container")

// IOError wraps a filesystem failure during a validated read or write.
type IOError struct {
	Op   string // "read" or "write"
	Name string // logical name
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// CommandError reports a non-zero exit from the container engine CLI.
// Stderr carries the engine's own complaint verbatim so the operator can
// see what the engine actually said.
type CommandError struct {
	Verb   string
	ID     string
	Stderr string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("docker %s %s failed: %s", e.Verb, e.ID, e.Stderr)
}

// ParseError reports inspection output that is missing one of the
// required identity fields. Missing optional sections never produce it.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse container details: %s", e.Reason)
}
