package a2a

import (
	"fmt"
	"strings"
)

// MessageSendParams are the params of message/send, tasks/send and
// message/stream.
type MessageSendParams struct {
	Message       Message                   `json:"message"`
	Configuration *MessageSendConfiguration `json:"configuration,omitempty"`
	Metadata      map[string]any            `json:"metadata,omitempty"`
}

// MessageSendConfiguration holds client preferences for a send request.
type MessageSendConfiguration struct {
	AcceptedOutputModes []string `json:"acceptedOutputModes,omitempty"`
	HistoryLength       *int     `json:"historyLength,omitempty"`
	Blocking            bool     `json:"blocking,omitempty"`
}

// TaskIDParams identify a task for tasks/get, tasks/cancel and
// tasks/resubscribe.
type TaskIDParams struct {
	ID       string         `json:"id"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RequestContext is a validated send request.
type RequestContext struct {
	Query     string
	TaskID    string
	ContextID string
	Message   Message
}

// NewRequestContext validates params and extracts the user query.
// A query that is empty after trimming is ErrInvalidParams.
func NewRequestContext(params MessageSendParams) (RequestContext, error) {
	query := strings.TrimSpace(params.Message.TextContent())
	if query == "" {
		return RequestContext{}, fmt.Errorf("%w: message must contain non-empty text", ErrInvalidParams)
	}

	req := RequestContext{
		Query:   query,
		Message: params.Message,
	}
	if params.Message.TaskID != nil {
		req.TaskID = strings.TrimSpace(*params.Message.TaskID)
	}
	if params.Message.ContextID != nil {
		req.ContextID = strings.TrimSpace(*params.Message.ContextID)
	}
	return req, nil
}
