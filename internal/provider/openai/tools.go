package openai

import (
	"encoding/json"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	ai "github.com/spetersoncode/scholar"
)

func convertTools(tools []ai.Tool) []openai.ChatCompletionToolParam {
	var result []openai.ChatCompletionToolParam
	for _, t := range tools {
		fn := shared.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
		}
		if len(t.Parameters) > 0 {
			_ = json.Unmarshal(t.Parameters, &fn.Parameters)
		}
		result = append(result, openai.ChatCompletionToolParam{Function: fn})
	}
	return result
}

// extractToolCalls reads the calls from a completion. Models sometimes send
// an empty argument string for tools without parameters.
func extractToolCalls(msg openai.ChatCompletionMessage) []ai.ToolCall {
	var calls []ai.ToolCall
	for _, tc := range msg.ToolCalls {
		args := tc.Function.Arguments
		if args == "" {
			args = "{}"
		}
		calls = append(calls, ai.ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: args})
	}
	return calls
}
