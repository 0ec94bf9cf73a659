// Package reasoning adapts a chat model into the decision step of the
// agent loop: given the history and the declared tools, produce the next
// assistant message.
package reasoning

import (
	"context"
	"errors"
	"fmt"

	ai "github.com/spetersoncode/scholar"
)

// ErrReasoningFailure marks failures of the decision step. They are fatal
// for the current run and never retried here.
var ErrReasoningFailure = errors.New("reasoning failure")

// ErrInvalidHistory is returned for a history that is empty or does not end
// with a user or tool message.
var ErrInvalidHistory = errors.New("history must end with a user or tool message")

// Engine decides the next assistant message.
type Engine interface {
	Decide(ctx context.Context, history []ai.Message, tools []ai.Tool) (ai.Message, error)
}

// Error wraps a failure of the decision step.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("reasoning: %v", e.Err)
}

// Unwrap exposes both the cause and ErrReasoningFailure to errors.Is.
func (e *Error) Unwrap() []error {
	return []error{ErrReasoningFailure, e.Err}
}

// ChatEngine is an Engine backed by a ChatProvider.
type ChatEngine struct {
	provider     ai.ChatProvider
	systemPrompt string
	chatOpts     []ai.Option
}

// Option configures a ChatEngine.
type Option func(*ChatEngine)

// WithSystemPrompt replaces the default system prompt. An empty prompt
// disables injection.
func WithSystemPrompt(prompt string) Option {
	return func(e *ChatEngine) { e.systemPrompt = prompt }
}

// WithChatOptions sets provider options such as model and temperature.
func WithChatOptions(opts ...ai.Option) Option {
	return func(e *ChatEngine) { e.chatOpts = append(e.chatOpts, opts...) }
}

// NewChatEngine creates a ChatEngine over provider.
func NewChatEngine(provider ai.ChatProvider, opts ...Option) *ChatEngine {
	e := &ChatEngine{
		provider:     provider,
		systemPrompt: DefaultSystemPrompt,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide implements Engine.
//
// The system prompt is prepended only when history has no system message,
// so it appears exactly once at position 0. The returned message may carry
// both content and tool calls; callers treat tool calls as taking priority.
func (e *ChatEngine) Decide(ctx context.Context, history []ai.Message, tools []ai.Tool) (ai.Message, error) {
	if err := validateHistory(history); err != nil {
		return ai.Message{}, &Error{Err: err}
	}

	msgs := e.withSystemPrompt(history)

	opts := make([]ai.Option, 0, len(e.chatOpts)+1)
	opts = append(opts, e.chatOpts...)
	if len(tools) > 0 {
		opts = append(opts, ai.WithTools(tools...))
	}

	resp, err := e.provider.Chat(ctx, msgs, opts...)
	if err != nil {
		return ai.Message{}, &Error{Err: err}
	}
	if resp == nil {
		return ai.Message{}, &Error{Err: errors.New("provider returned no response")}
	}
	if resp.Content == "" && len(resp.ToolCalls) == 0 {
		return ai.Message{}, &Error{Err: errors.New("model returned neither content nor tool calls")}
	}

	msg := resp.Message()
	for i := range msg.ToolCalls {
		if msg.ToolCalls[i].ID == "" {
			msg.ToolCalls[i].ID = fmt.Sprintf("call-%s-%d", msg.ID, i)
		}
	}
	return msg, nil
}

func (e *ChatEngine) withSystemPrompt(history []ai.Message) []ai.Message {
	if e.systemPrompt == "" {
		return history
	}
	for _, m := range history {
		if m.Role == ai.RoleSystem {
			return history
		}
	}
	msgs := make([]ai.Message, 0, len(history)+1)
	msgs = append(msgs, ai.Message{Role: ai.RoleSystem, Content: e.systemPrompt})
	return append(msgs, history...)
}

func validateHistory(history []ai.Message) error {
	if len(history) == 0 {
		return ErrInvalidHistory
	}
	switch history[len(history)-1].Role {
	case ai.RoleUser, ai.RoleTool:
		return nil
	default:
		return ErrInvalidHistory
	}
}

var _ Engine = (*ChatEngine)(nil)
