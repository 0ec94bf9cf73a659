package a2a

import (
	"errors"
	"fmt"
)

// JSON-RPC and A2A error codes.
const (
	CodeParseError           = -32700
	CodeInvalidRequest       = -32600
	CodeMethodNotFound       = -32601
	CodeInvalidParams        = -32602
	CodeInternalError        = -32603
	CodeTaskNotFound         = -32001
	CodeTaskNotResumable     = -32002
	CodeUnsupportedOperation = -32004
)

var (
	// ErrInvalidParams is returned for requests without a usable query.
	ErrInvalidParams = errors.New("a2a: invalid params")

	// ErrTaskNotFound is returned when a request references an unknown task.
	ErrTaskNotFound = errors.New("a2a: task not found")

	// ErrTaskNotResumable is returned when a request references a task
	// that already completed or failed.
	ErrTaskNotResumable = errors.New("a2a: task cannot be resumed")

	// ErrUnsupportedOperation is returned for operations this agent rejects,
	// such as cancellation.
	ErrUnsupportedOperation = errors.New("a2a: unsupported operation")

	// ErrQueueClosed is returned when emitting to a closed queue.
	ErrQueueClosed = errors.New("a2a: event queue closed")
)

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("a2a: rpc error %d: %s", e.Code, e.Message)
}

// NewError creates an Error with a formatted message.
func NewError(code int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ToRPCError maps an error onto a JSON-RPC error object. Errors that are
// not protocol errors become internal errors.
func ToRPCError(err error) *Error {
	var rpcErr *Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &rpcErr):
		return rpcErr
	case errors.Is(err, ErrInvalidParams):
		return &Error{Code: CodeInvalidParams, Message: err.Error()}
	case errors.Is(err, ErrTaskNotFound):
		return &Error{Code: CodeTaskNotFound, Message: err.Error()}
	case errors.Is(err, ErrTaskNotResumable):
		return &Error{Code: CodeTaskNotResumable, Message: err.Error()}
	case errors.Is(err, ErrUnsupportedOperation):
		return &Error{Code: CodeUnsupportedOperation, Message: err.Error()}
	default:
		return &Error{Code: CodeInternalError, Message: "Internal error: " + err.Error()}
	}
}
