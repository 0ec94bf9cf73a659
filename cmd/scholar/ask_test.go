package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/scholar"
	"github.com/spetersoncode/scholar/a2a"
	"github.com/spetersoncode/scholar/agent"
	"github.com/spetersoncode/scholar/server"
	"github.com/spetersoncode/scholar/store"
	"github.com/spetersoncode/scholar/tool"
)

type answerEngine string

func (a answerEngine) Decide(ctx context.Context, history []ai.Message, tools []ai.Tool) (ai.Message, error) {
	return ai.Message{Role: ai.RoleAssistant, Content: string(a)}, nil
}

func newTestServer(t *testing.T, answer string) string {
	t.Helper()
	registry := tool.NewRegistry()
	executor := a2a.NewExecutor(agent.New(answerEngine(answer), registry), store.NewMemoryStore())
	card, err := server.DefaultCard("", nil)
	require.NoError(t, err)

	srv := httptest.NewServer(server.New(executor, card).Handler())
	t.Cleanup(srv.Close)
	return srv.URL + "/a2a"
}

func runAskCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"ask"}, args...))
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestAsk(t *testing.T) {
	url := newTestServer(t, `{"status":"completed","message":"Three papers found."}`)

	for _, mode := range []string{"aggregate", "stream"} {
		t.Run(mode, func(t *testing.T) {
			args := []string{"--url", url, "papers", "on", "diffusion"}
			if mode == "stream" {
				args = append(args, "--stream")
			}
			out, err := runAskCmd(t, args...)
			require.NoError(t, err)

			assert.Contains(t, out, "[submitted]")
			assert.Contains(t, out, "Three papers found.")
			assert.Contains(t, out, "[completed] task ")
		})
	}
}

func TestAskInputRequired(t *testing.T) {
	url := newTestServer(t, `{"status":"input_required","message":"Which subfield?"}`)

	out, err := runAskCmd(t, "--url", url, "papers")
	require.NoError(t, err)
	assert.Contains(t, out, "? Which subfield?")
	assert.Contains(t, out, "reply with: --task ")
}

func TestAskErrors(t *testing.T) {
	url := newTestServer(t, "unused")

	_, err := runAskCmd(t, "--url", url, "--task", "no-such-task", "hello")
	require.Error(t, err)

	_, err = runAskCmd(t, "--url", url)
	require.Error(t, err)
}

func TestPrintEvent(t *testing.T) {
	m := a2a.NewMapper("task-1", "ctx-1")

	var buf bytes.Buffer
	printEvent(&buf, m.Working("Calling tools: search_arXiv"))
	printEvent(&buf, m.Failed("upstream unavailable"))
	printEvent(&buf, m.Result("answer"))

	assert.Equal(t,
		"[working] Calling tools: search_arXiv\n! upstream unavailable\n\nanswer\n\n",
		buf.String())
}
