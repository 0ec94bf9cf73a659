package a2a

import (
	ai "github.com/spetersoncode/scholar"
)

// ToAIMessage converts an inbound message to a conversation message.
// Only text parts are kept; the user query is plain text.
func ToAIMessage(msg Message) ai.Message {
	m := ai.NewUserMessage(msg.TextContent())
	if msg.MessageID != "" {
		m.ID = msg.MessageID
	}
	if msg.Role == MessageRoleAgent {
		m.Role = ai.RoleAssistant
	}
	return m
}

// FromAIMessages converts conversation history to protocol messages.
// System messages are internal and are omitted.
func FromAIMessages(msgs []ai.Message, taskID, contextID string) []Message {
	result := make([]Message, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Role == ai.RoleSystem {
			continue
		}
		m := FromAIMessage(msg)
		if taskID != "" {
			m.TaskID = &taskID
		}
		if contextID != "" {
			m.ContextID = &contextID
		}
		result = append(result, m)
	}
	return result
}

// FromAIMessage converts a conversation message to a protocol message.
// Tool calls and results are carried as data parts.
func FromAIMessage(msg ai.Message) Message {
	role := MessageRoleAgent
	if msg.Role == ai.RoleUser {
		role = MessageRoleUser
	}

	m := NewMessage(role)
	if msg.ID != "" {
		m.MessageID = msg.ID
	}

	var parts []Part
	if msg.Content != "" {
		parts = append(parts, NewTextPart(msg.Content))
	}
	for _, tc := range msg.ToolCalls {
		parts = append(parts, NewDataPart(map[string]any{
			"type": "tool_call",
			"tool_call": map[string]any{
				"id":        tc.ID,
				"name":      tc.Name,
				"arguments": tc.Arguments,
			},
		}))
	}
	for _, tr := range msg.ToolResults {
		parts = append(parts, NewDataPart(map[string]any{
			"type": "tool_result",
			"tool_result": map[string]any{
				"tool_call_id": tr.ToolCallID,
				"name":         tr.Name,
				"content":      tr.Content,
				"is_error":     tr.IsError,
			},
		}))
	}
	if parts == nil {
		parts = []Part{}
	}
	m.Parts = parts
	return m
}
