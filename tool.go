package scholar

import (
	"encoding/json"
	"fmt"
)

// Tool declares a function the model may call.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string `json:"name"`
	// Description explains what the tool does so the model can decide when to use it.
	Description string `json:"description"`
	// Parameters is a JSON Schema object describing the arguments.
	Parameters json.RawMessage `json:"parameters"`
}

// ToolCall is a request from the model to invoke a tool.
type ToolCall struct {
	// ID correlates the call with its ToolResult.
	ID   string `json:"id"`
	Name string `json:"name"`
	// Arguments is a JSON object encoded as a string.
	Arguments string `json:"arguments"`
}

// DecodeArguments unmarshals the call arguments into a generic map.
// Empty arguments decode to an empty map.
func (c ToolCall) DecodeArguments() (map[string]any, error) {
	args := map[string]any{}
	if c.Arguments == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(c.Arguments), &args); err != nil {
		return nil, fmt.Errorf("decode arguments for %s: %w", c.Name, err)
	}
	return args, nil
}

// ToolResult is the outcome of executing a ToolCall.
type ToolResult struct {
	ToolCallID string `json:"toolCallId"`
	Name       string `json:"name,omitempty"`
	Content    string `json:"content"`
	IsError    bool   `json:"isError,omitempty"`
}

// NewToolResultMessage creates a tool message holding results in the given order.
func NewToolResultMessage(results ...ToolResult) Message {
	return Message{
		ID:          GenerateMessageID(),
		Role:        RoleTool,
		ToolResults: results,
	}
}
