package tool

import (
	"context"

	ai "github.com/spetersoncode/scholar"
)

// Handler executes a tool call and returns the result text.
// Arguments on the call have already been validated and normalized.
type Handler func(ctx context.Context, call ai.ToolCall) (string, error)

// TypedHandler executes a tool call with arguments decoded into T.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)
