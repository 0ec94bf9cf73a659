package anthropic

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/scholar"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New("key", WithRequestOptions(option.WithBaseURL(srv.URL)))
}

func TestChat(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-5",
			"stop_reason": "tool_use",
			"content": [
				{"type": "text", "text": "Searching."},
				{"type": "tool_use", "id": "toolu_1", "name": "search_arXiv", "input": {"query": "diffusion"}}
			],
			"usage": {"input_tokens": 20, "output_tokens": 5}
		}`))
	})

	history := []ai.Message{
		{Role: ai.RoleSystem, Content: "You are a research assistant."},
		ai.NewUserMessage("Find papers on diffusion"),
		{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{{ID: "toolu_0", Name: "search_arXiv", Arguments: `{"query":"x"}`}}},
		{Role: ai.RoleTool, ToolResults: []ai.ToolResult{{ToolCallID: "toolu_0", Content: "[]"}}},
	}
	resp, err := c.Chat(t.Context(), history, ai.WithTools(ai.Tool{
		Name:        "search_arXiv",
		Description: "Search arXiv",
		Parameters:  json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"}},"required":["query"]}`),
	}))
	require.NoError(t, err)

	assert.Equal(t, "Searching.", resp.Content)
	assert.Equal(t, "tool_use", resp.FinishReason)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "toolu_1", resp.ToolCalls[0].ID)
	assert.JSONEq(t, `{"query":"diffusion"}`, resp.ToolCalls[0].Arguments)
	assert.Equal(t, 20, resp.Usage.InputTokens)

	assert.Equal(t, DefaultModel, body["model"])
	assert.Len(t, body["system"], 1)
	assert.Len(t, body["messages"], 3)
	assert.Len(t, body["tools"], 1)
}

func TestChatErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"overloaded"}}`))
	})

	_, err := c.Chat(t.Context(), []ai.Message{ai.NewUserMessage("hi")}, ai.WithModel("claude-haiku-4-5"))
	require.Error(t, err)
	assert.True(t, ai.IsTransient(err))
	assert.Equal(t, 3*time.Second, ai.RetryAfterOf(err))
}
