package google

import (
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	ai "github.com/spetersoncode/scholar"
)

// convertMessages maps the history to Gemini contents. System prompts are
// returned separately as the system instruction.
func convertMessages(messages []ai.Message) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var system *genai.Content

	for _, msg := range messages {
		if msg.Role == ai.RoleSystem {
			if msg.Content == "" {
				continue
			}
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, &genai.Part{Text: msg.Content})
			continue
		}

		role := "user"
		if msg.Role == ai.RoleAssistant {
			role = "model"
		}

		var parts []*genai.Part
		if msg.Content != "" {
			parts = append(parts, &genai.Part{Text: msg.Content})
		}
		for _, tc := range msg.ToolCalls {
			var args map[string]any
			_ = json.Unmarshal([]byte(tc.Arguments), &args)
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{ID: tc.ID, Name: tc.Name, Args: args},
			})
		}
		for _, tr := range msg.ToolResults {
			// Gemini matches responses by function name.
			name := tr.Name
			if name == "" {
				name = tr.ToolCallID
			}
			var result map[string]any
			if err := json.Unmarshal([]byte(tr.Content), &result); err != nil {
				result = map[string]any{"result": tr.Content}
			}
			if tr.IsError {
				result = map[string]any{"error": tr.Content}
			}
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{ID: tr.ToolCallID, Name: name, Response: result},
			})
		}

		if len(parts) > 0 {
			contents = append(contents, &genai.Content{Role: role, Parts: parts})
		}
	}

	return contents, system
}

// BlockedError indicates the request was blocked by content filtering.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("google: request blocked: %s", e.Reason)
}
