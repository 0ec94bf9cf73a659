package tool

import (
	"fmt"
	"strings"
)

// ErrToolNotFound is returned when a tool call references an unregistered tool.
type ErrToolNotFound struct {
	Name string
}

func (e *ErrToolNotFound) Error() string {
	return fmt.Sprintf("tool: not found: %s", e.Name)
}

// ErrInvalidArgument is returned when call arguments do not satisfy the
// tool's declared parameters.
type ErrInvalidArgument struct {
	Name    string
	Reasons []string
	Err     error
}

func (e *ErrInvalidArgument) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("tool: invalid arguments for %s: %v", e.Name, e.Err)
	case len(e.Reasons) > 0:
		return fmt.Sprintf("tool: invalid arguments for %s: %s", e.Name, strings.Join(e.Reasons, "; "))
	default:
		return fmt.Sprintf("tool: invalid arguments for %s", e.Name)
	}
}

func (e *ErrInvalidArgument) Unwrap() error {
	return e.Err
}

// ErrToolExecution wraps a failure raised while running a handler.
type ErrToolExecution struct {
	Name string
	Err  error
}

func (e *ErrToolExecution) Error() string {
	return fmt.Sprintf("tool: %s execution failed: %v", e.Name, e.Err)
}

func (e *ErrToolExecution) Unwrap() error {
	return e.Err
}

// ErrToolAlreadyRegistered is returned when registering a duplicate name.
type ErrToolAlreadyRegistered struct {
	Name string
}

func (e *ErrToolAlreadyRegistered) Error() string {
	return fmt.Sprintf("tool: already registered: %s", e.Name)
}
