package openai

import (
	"github.com/openai/openai-go"

	ai "github.com/spetersoncode/scholar"
)

// convertMessages maps the history to chat completion messages. A tool
// message fans out into one API message per result.
func convertMessages(messages []ai.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		result = append(result, convertMessage(msg)...)
	}
	return result
}

func convertMessage(msg ai.Message) []openai.ChatCompletionMessageParamUnion {
	switch msg.Role {
	case ai.RoleTool:
		out := make([]openai.ChatCompletionMessageParamUnion, len(msg.ToolResults))
		for i, tr := range msg.ToolResults {
			out[i] = openai.ToolMessage(tr.Content, tr.ToolCallID)
		}
		return out
	case ai.RoleAssistant:
		if msg.HasToolCalls() {
			return []openai.ChatCompletionMessageParamUnion{assistantToolCalls(msg)}
		}
	}

	if msg.Content == "" {
		return nil
	}
	switch msg.Role {
	case ai.RoleSystem:
		return []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(msg.Content)}
	case ai.RoleAssistant:
		return []openai.ChatCompletionMessageParamUnion{openai.AssistantMessage(msg.Content)}
	default:
		return []openai.ChatCompletionMessageParamUnion{openai.UserMessage(msg.Content)}
	}
}

func assistantToolCalls(msg ai.Message) openai.ChatCompletionMessageParamUnion {
	param := openai.ChatCompletionAssistantMessageParam{
		ToolCalls: make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls)),
	}
	for i, tc := range msg.ToolCalls {
		param.ToolCalls[i] = openai.ChatCompletionMessageToolCallParam{
			ID: tc.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		}
	}
	if msg.Content != "" {
		param.Content.OfString = openai.String(msg.Content)
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &param}
}
