package google

import (
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	ai "github.com/spetersoncode/scholar"
)

func convertTools(tools []ai.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	funcs := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		funcs[i] = &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  convertSchema(t.Parameters),
		}
	}
	return []*genai.Tool{{FunctionDeclarations: funcs}}
}

// extractToolCalls collects function calls. Gemini API responses often omit
// call IDs, so one is synthesized from the position and name.
func extractToolCalls(parts []*genai.Part) []ai.ToolCall {
	var calls []ai.ToolCall
	for i, part := range parts {
		if part.FunctionCall == nil {
			continue
		}
		id := part.FunctionCall.ID
		if id == "" {
			id = fmt.Sprintf("call_%d_%s", i, part.FunctionCall.Name)
		}
		args, _ := json.Marshal(part.FunctionCall.Args)
		if part.FunctionCall.Args == nil {
			args = []byte("{}")
		}
		calls = append(calls, ai.ToolCall{
			ID:        id,
			Name:      part.FunctionCall.Name,
			Arguments: string(args),
		})
	}
	return calls
}
