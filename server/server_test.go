package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/scholar"
	"github.com/spetersoncode/scholar/a2a"
	"github.com/spetersoncode/scholar/agent"
	"github.com/spetersoncode/scholar/store"
	"github.com/spetersoncode/scholar/tool"
)

// scriptedEngine returns its messages in order, repeating the last one.
type scriptedEngine struct {
	mu       sync.Mutex
	messages []ai.Message
	panics   bool
	calls    atomic.Int32
}

func (e *scriptedEngine) Decide(ctx context.Context, history []ai.Message, tools []ai.Tool) (ai.Message, error) {
	e.calls.Add(1)
	if e.panics {
		panic("engine exploded")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	msg := e.messages[0]
	if len(e.messages) > 1 {
		e.messages = e.messages[1:]
	}
	return msg, nil
}

type searchArgs struct {
	Query      string `json:"query" required:"true"`
	MaxResults int    `json:"max_results"`
}

type fixture struct {
	engine   *scriptedEngine
	searches *atomic.Int32
	server   *httptest.Server
	client   *a2a.Client
}

func scenario() []ai.Message {
	return []ai.Message{
		{Role: ai.RoleAssistant, ToolCalls: []ai.ToolCall{{
			ID: "call-1", Name: "search_arXiv", Arguments: `{"query":"diffusion models","max_results":5}`,
		}}},
		{Role: ai.RoleAssistant, Content: `{"status":"completed","message":"Two papers on diffusion models."}`},
	}
}

func newFixture(t *testing.T, engine *scriptedEngine, opts ...a2a.ExecutorOption) *fixture {
	t.Helper()
	var searches atomic.Int32
	registry := tool.NewRegistry().Add(
		tool.Func("search_arXiv", "Search arXiv for papers", func(ctx context.Context, args searchArgs) (string, error) {
			searches.Add(1)
			return "Paper 1:\n  Title: A\n\nPaper 2:\n  Title: B\n", nil
		}),
	)

	executor := a2a.NewExecutor(agent.New(engine, registry), store.NewMemoryStore(), opts...)
	card, err := DefaultCard("http://localhost:10000/a2a/paper-research", registry.Tools())
	require.NoError(t, err)

	srv := httptest.NewServer(New(executor, card).Handler())
	t.Cleanup(srv.Close)

	return &fixture{
		engine:   engine,
		searches: &searches,
		server:   srv,
		client:   a2a.NewClient(srv.URL + "/a2a/paper-research"),
	}
}

func (f *fixture) post(t *testing.T, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(f.server.URL+"/a2a/paper-research", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func errorCode(t *testing.T, resp map[string]any) float64 {
	t.Helper()
	rpcErr, ok := resp["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %v", resp)
	return rpcErr["code"].(float64)
}

// describe reduces events to comparable strings, dropping ids and timestamps.
func describe(events []a2a.Event) []string {
	out := make([]string, len(events))
	for i, ev := range events {
		switch e := ev.(type) {
		case *a2a.StatusUpdateEvent:
			text := ""
			if e.Status.Message != nil {
				text = e.Status.Message.TextContent()
			}
			out[i] = string(e.Status.State) + ":" + text
		case *a2a.ArtifactUpdateEvent:
			out[i] = "artifact:" + e.Artifact.Name + ":" + e.Artifact.TextContent()
		default:
			out[i] = ev.Kind()
		}
	}
	return out
}

func TestSendScenario(t *testing.T) {
	f := newFixture(t, &scriptedEngine{messages: scenario()})

	events, err := f.client.SendText(t.Context(), "Find recent papers on diffusion models", "", "")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"submitted:",
		"working:",
		"working:Calling tools: search_arXiv",
		"artifact:result:Two papers on diffusion models.",
		"completion",
	}, describe(events))
	assert.Equal(t, int32(1), f.searches.Load())
}

func TestAggregateEnvelope(t *testing.T) {
	f := newFixture(t, &scriptedEngine{messages: scenario()})

	status, resp := f.post(t, `{"jsonrpc":"2.0","id":"req-7","method":"tasks/send","params":{"message":{"kind":"message","messageId":"m1","role":"user","parts":[{"kind":"text","text":"diffusion models"}]}}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2.0", resp["jsonrpc"])
	assert.Equal(t, "req-7", resp["id"])

	result := resp["result"].(map[string]any)
	assert.Equal(t, "completed", result["status"])
	assert.Len(t, result["events"], 5)
}

func TestStreamMatchesAggregate(t *testing.T) {
	aggregate := newFixture(t, &scriptedEngine{messages: scenario()})
	streaming := newFixture(t, &scriptedEngine{messages: scenario()})

	want, err := aggregate.client.SendText(t.Context(), "Find recent papers on diffusion models", "", "")
	require.NoError(t, err)

	var got []a2a.Event
	for ev, err := range streaming.client.Stream(t.Context(), a2a.TextParams("Find recent papers on diffusion models", "", "")) {
		require.NoError(t, err)
		got = append(got, ev)
	}

	assert.Equal(t, describe(want), describe(got))
	assert.True(t, got[len(got)-1].Terminal())
}

func TestStreamProducerFailure(t *testing.T) {
	f := newFixture(t, &scriptedEngine{panics: true})

	var got []a2a.Event
	for ev, err := range f.client.Stream(t.Context(), a2a.TextParams("papers", "", "")) {
		require.NoError(t, err)
		got = append(got, ev)
	}

	require.Len(t, got, 3)
	assert.Equal(t, []string{"submitted:", "working:"}, describe(got[:2]))
	last, ok := got[2].(*a2a.StatusUpdateEvent)
	require.True(t, ok)
	assert.Equal(t, a2a.TaskStateFailed, last.Status.State)
	assert.True(t, last.Final)
	assert.Contains(t, last.Status.Message.TextContent(), "engine exploded")

	task, err := f.client.Task(t.Context(), last.TaskID)
	require.NoError(t, err)
	assert.Equal(t, a2a.TaskStateFailed, task.Status.State)
}

func TestSendProducerFailure(t *testing.T) {
	f := newFixture(t, &scriptedEngine{panics: true})

	events, err := f.client.SendText(t.Context(), "papers", "", "")
	require.NoError(t, err)

	require.Len(t, events, 3)
	last, ok := events[2].(*a2a.StatusUpdateEvent)
	require.True(t, ok)
	assert.Equal(t, a2a.TaskStateFailed, last.Status.State)
	assert.True(t, last.Final)

	task, err := f.client.Task(t.Context(), last.TaskID)
	require.NoError(t, err)
	assert.Equal(t, a2a.TaskStateFailed, task.Status.State)
}

func TestStreamLoopExceeded(t *testing.T) {
	// The engine keeps asking for tools and never answers.
	engine := &scriptedEngine{messages: scenario()[:1]}
	f := newFixture(t, engine, a2a.WithAgentOptions(agent.WithMaxSteps(2)))

	var got []a2a.Event
	for ev, err := range f.client.Stream(t.Context(), a2a.TextParams("papers", "", "")) {
		require.NoError(t, err)
		got = append(got, ev)
	}

	require.NotEmpty(t, got)
	for _, ev := range got {
		assert.NotEqual(t, a2a.KindArtifactUpdate, ev.Kind())
	}
	last, ok := got[len(got)-1].(*a2a.StatusUpdateEvent)
	require.True(t, ok)
	assert.Equal(t, a2a.TaskStateFailed, last.Status.State)
	assert.True(t, last.Final)
	assert.Contains(t, last.Status.Message.TextContent(), "step limit")
	assert.Equal(t, int32(2), f.searches.Load())
}

func TestEmptyQueryRejected(t *testing.T) {
	f := newFixture(t, &scriptedEngine{messages: scenario()})

	for _, method := range []string{"message/send", "tasks/send", "message/stream"} {
		t.Run(method, func(t *testing.T) {
			status, resp := f.post(t, `{"jsonrpc":"2.0","id":1,"method":"`+method+`","params":{"message":{"kind":"message","messageId":"m1","role":"user","parts":[{"kind":"text","text":"   "}]}}}`)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, float64(a2a.CodeInvalidParams), errorCode(t, resp))
		})
	}

	t.Run("missing params", func(t *testing.T) {
		status, resp := f.post(t, `{"jsonrpc":"2.0","id":1,"method":"message/send"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, float64(a2a.CodeInvalidParams), errorCode(t, resp))
	})

	assert.Zero(t, f.engine.calls.Load())
	assert.Zero(t, f.searches.Load())
}

func TestProtocolErrors(t *testing.T) {
	f := newFixture(t, &scriptedEngine{messages: scenario()})

	t.Run("method not found", func(t *testing.T) {
		status, resp := f.post(t, `{"jsonrpc":"2.0","id":1,"method":"tasks/pushNotificationConfig/set","params":{}}`)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, float64(a2a.CodeMethodNotFound), errorCode(t, resp))
	})

	t.Run("malformed body", func(t *testing.T) {
		status, resp := f.post(t, `{"jsonrpc":"2.0","id":`)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, float64(a2a.CodeInternalError), errorCode(t, resp))
	})

	t.Run("cancel is unsupported", func(t *testing.T) {
		events, err := f.client.SendText(t.Context(), "diffusion", "", "")
		require.NoError(t, err)
		taskID := events[0].(*a2a.StatusUpdateEvent).TaskID

		for _, id := range []string{taskID, "missing"} {
			var rpcErr *a2a.Error
			require.ErrorAs(t, f.client.Cancel(t.Context(), id), &rpcErr)
			assert.Equal(t, a2a.CodeUnsupportedOperation, rpcErr.Code)
		}
	})

	t.Run("resubscribe is unsupported", func(t *testing.T) {
		_, resp := f.post(t, `{"jsonrpc":"2.0","id":1,"method":"tasks/resubscribe","params":{"id":"x"}}`)
		assert.Equal(t, float64(a2a.CodeUnsupportedOperation), errorCode(t, resp))
	})

	t.Run("completed task is not resumable", func(t *testing.T) {
		events, err := f.client.SendText(t.Context(), "diffusion", "", "")
		require.NoError(t, err)
		taskID := events[0].(*a2a.StatusUpdateEvent).TaskID

		status, resp := f.post(t, `{"jsonrpc":"2.0","id":7,"method":"message/send","params":{"message":{"role":"user","parts":[{"kind":"text","text":"again"}],"taskId":"`+taskID+`"}}}`)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, float64(a2a.CodeTaskNotResumable), errorCode(t, resp))
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := f.client.SendText(t.Context(), "more", "", "missing-task")
		var rpcErr *a2a.Error
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, a2a.CodeTaskNotFound, rpcErr.Code)
	})
}

func TestTaskGet(t *testing.T) {
	f := newFixture(t, &scriptedEngine{messages: scenario()})

	events, err := f.client.SendText(t.Context(), "diffusion models", "ctx-1", "")
	require.NoError(t, err)
	taskID := events[0].(*a2a.StatusUpdateEvent).TaskID

	task, err := f.client.Task(t.Context(), taskID)
	require.NoError(t, err)
	assert.Equal(t, a2a.TaskStateCompleted, task.Status.State)
	assert.Equal(t, "ctx-1", task.ContextID)
	require.Len(t, task.Artifacts, 1)
	assert.Equal(t, "Two papers on diffusion models.", task.Artifacts[0].TextContent())
	assert.NotEmpty(t, task.History)

	_, err = f.client.Task(t.Context(), "missing")
	var rpcErr *a2a.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, a2a.CodeTaskNotFound, rpcErr.Code)
}

func TestCardAndHealth(t *testing.T) {
	f := newFixture(t, &scriptedEngine{messages: scenario()})

	for _, path := range []string{"/.well-known/agent.json", "/agent-card"} {
		resp, err := http.Get(f.server.URL + path)
		require.NoError(t, err)
		var card a2a.AgentCard
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&card))
		resp.Body.Close()

		assert.Equal(t, "Paper Research Agent", card.Name, path)
		assert.True(t, card.Capabilities.Streaming)
		assert.Equal(t, "http://localhost:10000/a2a/paper-research", card.URL)

		var ids []string
		for _, s := range card.Skills {
			ids = append(ids, s.ID)
		}
		assert.Contains(t, ids, "search_arXiv")
	}

	card, err := f.client.Card(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Paper Research Agent", card.Name)

	resp, err := http.Get(f.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"healthy","agent":"paper-research"}`, string(body))
}

func TestCORS(t *testing.T) {
	f := newFixture(t, &scriptedEngine{messages: scenario()})

	req, err := http.NewRequest(http.MethodOptions, f.server.URL+"/a2a/paper-research", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestAGUIEndpoint(t *testing.T) {
	f := newFixture(t, &scriptedEngine{messages: scenario()})

	body := `{"threadId":"thread-1","runId":"run-1","messages":[{"id":"m1","role":"user","content":"Find recent papers on diffusion models"}]}`
	resp, err := http.Post(f.server.URL+"/agui/paper-research", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	stream := string(data)

	var types []string
	for _, line := range strings.Split(stream, "\n") {
		if typ, ok := strings.CutPrefix(line, "event: "); ok {
			types = append(types, typ)
		}
	}
	assert.Equal(t, []string{
		"RUN_STARTED",
		"STEP_STARTED",
		"TEXT_MESSAGE_START",
		"TEXT_MESSAGE_CONTENT",
		"TEXT_MESSAGE_END",
		"STEP_FINISHED",
		"RUN_FINISHED",
	}, types)
	assert.Contains(t, stream, "Two papers on diffusion models.")

	t.Run("rejects input without user text", func(t *testing.T) {
		resp, err := http.Post(f.server.URL+"/agui/paper-research", "application/json", strings.NewReader(`{"messages":[]}`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
