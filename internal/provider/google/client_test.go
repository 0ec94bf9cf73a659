package google

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	ai "github.com/spetersoncode/scholar"
)

func TestChat(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"finishReason": "STOP",
				"content": {"role": "model", "parts": [
					{"text": "Let me search."},
					{"functionCall": {"name": "search_arXiv", "args": {"query": "diffusion"}}}
				]}
			}],
			"usageMetadata": {"promptTokenCount": 9, "candidatesTokenCount": 4}
		}`))
	}))
	defer srv.Close()

	c, err := New(t.Context(), "key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	resp, err := c.Chat(t.Context(), []ai.Message{
		{Role: ai.RoleSystem, Content: "You are a research assistant."},
		ai.NewUserMessage("Find papers on diffusion"),
	}, ai.WithTools(ai.Tool{
		Name:       "search_arXiv",
		Parameters: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"}}}`),
	}))
	require.NoError(t, err)

	assert.Equal(t, "Let me search.", resp.Content)
	assert.Equal(t, "STOP", resp.FinishReason)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call_1_search_arXiv", resp.ToolCalls[0].ID)
	assert.JSONEq(t, `{"query":"diffusion"}`, resp.ToolCalls[0].Arguments)
	assert.Equal(t, 9, resp.Usage.InputTokens)

	assert.Contains(t, body, "systemInstruction")
	assert.Len(t, body["contents"], 1)
}

func TestConvertMessages(t *testing.T) {
	contents, system := convertMessages([]ai.Message{
		{Role: ai.RoleSystem, Content: "sys"},
		ai.NewUserMessage("q"),
		{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{{ID: "c1", Name: "search_arXiv", Arguments: `{"query":"x"}`}}},
		{Role: ai.RoleTool, ToolResults: []ai.ToolResult{{ToolCallID: "c1", Name: "search_arXiv", Content: "not json"}}},
	})

	require.NotNil(t, system)
	assert.Equal(t, "sys", system.Parts[0].Text)
	require.Len(t, contents, 3)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "search_arXiv", contents[1].Parts[0].FunctionCall.Name)

	resp := contents[2].Parts[0].FunctionResponse
	require.NotNil(t, resp)
	assert.Equal(t, "user", contents[2].Role)
	assert.Equal(t, "search_arXiv", resp.Name)
	assert.Equal(t, map[string]any{"result": "not json"}, resp.Response)
}

func TestConvertSchema(t *testing.T) {
	s := convertSchema(json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {"type": "string", "description": "search terms"},
			"max_results": {"type": "integer", "minimum": 1},
			"tags": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["query"]
	}`))
	require.NotNil(t, s)
	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"query"}, s.Required)
	assert.Equal(t, "search terms", s.Properties["query"].Description)
	assert.Equal(t, genai.TypeInteger, s.Properties["max_results"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["tags"].Items.Type)

	assert.Nil(t, convertSchema(nil))
	assert.Nil(t, convertSchema(json.RawMessage(`{bad`)))
}
