package agui

import (
	"errors"
	"strings"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/scholar/a2a"
)

// Role constants matching the AG-UI protocol.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// RunAgentInput is the AG-UI request for running an agent.
type RunAgentInput struct {
	ThreadID       string           `json:"threadId"`
	RunID          string           `json:"runId"`
	Messages       []events.Message `json:"messages"`
	Tools          []any            `json:"tools,omitempty"`
	Context        []any            `json:"context,omitempty"`
	State          any              `json:"state,omitempty"`
	ForwardedProps any              `json:"forwardedProps,omitempty"`
}

// PreparedInput is a validated run request.
type PreparedInput struct {
	ThreadID string
	RunID    string
	Query    string
}

var (
	// ErrNoMessages is returned when the input contains no messages.
	ErrNoMessages = errors.New("agui: no messages provided")

	// ErrNoUserMessage is returned when no user message carries text.
	ErrNoUserMessage = errors.New("agui: no user message with text")
)

// Prepare validates the input. The server keeps the conversation per
// thread, so only the last user message is taken from Messages.
func (r *RunAgentInput) Prepare() (*PreparedInput, error) {
	if len(r.Messages) == 0 {
		return nil, ErrNoMessages
	}

	var query string
	for i := len(r.Messages) - 1; i >= 0; i-- {
		msg := r.Messages[i]
		if msg.Role != RoleUser || msg.Content == nil {
			continue
		}
		if q := strings.TrimSpace(*msg.Content); q != "" {
			query = q
			break
		}
	}
	if query == "" {
		return nil, ErrNoUserMessage
	}

	threadID := r.ThreadID
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	runID := r.RunID
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &PreparedInput{ThreadID: threadID, RunID: runID, Query: query}, nil
}

// SendParams returns the A2A send params for the prepared run.
func (p *PreparedInput) SendParams() a2a.MessageSendParams {
	return a2a.TextParams(p.Query, p.ThreadID, "")
}
