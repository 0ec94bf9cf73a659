package anthropic

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"

	ai "github.com/spetersoncode/scholar"
)

// convertMessages splits system prompts out of the history and maps the
// rest to content blocks. Empty text is dropped since the API rejects
// empty text blocks.
func convertMessages(messages []ai.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var result []anthropic.MessageParam
	var system []anthropic.TextBlockParam

	for _, msg := range messages {
		if msg.Role == ai.RoleSystem {
			if msg.Content != "" {
				system = append(system, anthropic.TextBlockParam{Text: msg.Content})
			}
			continue
		}

		blocks := contentBlocks(msg)
		if len(blocks) == 0 {
			continue
		}
		role := anthropic.MessageParamRoleUser
		if msg.Role == ai.RoleAssistant {
			role = anthropic.MessageParamRoleAssistant
		}
		result = append(result, anthropic.MessageParam{Role: role, Content: blocks})
	}

	return result, system
}

// contentBlocks renders text, tool_use and tool_result blocks. Tool results
// travel in user messages.
func contentBlocks(msg ai.Message) []anthropic.ContentBlockParamUnion {
	var blocks []anthropic.ContentBlockParamUnion
	if msg.Content != "" {
		blocks = append(blocks, anthropic.NewTextBlock(msg.Content))
	}
	for _, tc := range msg.ToolCalls {
		input := map[string]any{}
		if tc.Arguments != "" {
			_ = json.Unmarshal([]byte(tc.Arguments), &input)
		}
		blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, input, tc.Name))
	}
	for _, tr := range msg.ToolResults {
		blocks = append(blocks, anthropic.NewToolResultBlock(tr.ToolCallID, tr.Content, tr.IsError))
	}
	return blocks
}
