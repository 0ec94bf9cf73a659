package a2a

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
)

// Client calls an A2A agent over JSON-RPC.
type Client struct {
	endpoint   string
	httpClient *http.Client
	nextID     atomic.Int64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// NewClient creates a client for the agent's JSON-RPC endpoint,
// e.g. http://localhost:10000/a2a/paper-research.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Card fetches the agent card from the endpoint's host.
func (c *Client) Card(ctx context.Context) (*AgentCard, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("a2a: parse endpoint: %w", err)
	}
	u.Path = "/.well-known/agent.json"
	u.RawQuery = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("a2a: create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("a2a: fetch agent card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("a2a: fetch agent card: unexpected status %d", resp.StatusCode)
	}
	var card AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("a2a: decode agent card: %w", err)
	}
	return &card, nil
}

// Send runs a task in aggregate mode and returns all of its events.
func (c *Client) Send(ctx context.Context, params MessageSendParams) ([]Event, error) {
	raw, err := c.call(ctx, MethodMessageSend, params)
	if err != nil {
		return nil, err
	}

	var agg rawAggregate
	if err := json.Unmarshal(raw, &agg); err != nil {
		return nil, fmt.Errorf("a2a: decode result: %w", err)
	}
	return decodeEvents(agg.Events)
}

// SendText sends a text message, optionally continuing a context or task.
func (c *Client) SendText(ctx context.Context, text, contextID, taskID string) ([]Event, error) {
	return c.Send(ctx, TextParams(text, contextID, taskID))
}

// Task fetches a task snapshot.
func (c *Client) Task(ctx context.Context, id string) (*Task, error) {
	raw, err := c.call(ctx, MethodTasksGet, TaskIDParams{ID: id})
	if err != nil {
		return nil, err
	}
	var task Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("a2a: decode task: %w", err)
	}
	return &task, nil
}

// Cancel asks the agent to cancel a task. This agent never supports
// cancellation, so a successful call returns the server's error.
func (c *Client) Cancel(ctx context.Context, id string) error {
	_, err := c.call(ctx, MethodTasksCancel, TaskIDParams{ID: id})
	return err
}

// Stream runs a task over server-sent events. The sequence ends after a
// terminal event, when the server closes the stream, or at the first error.
func (c *Client) Stream(ctx context.Context, params MessageSendParams) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		resp, err := c.post(ctx, MethodMessageStream, params, "text/event-stream")
		if err != nil {
			yield(nil, err)
			return
		}
		defer resp.Body.Close()

		// Errors detected before streaming starts come back as plain JSON.
		if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
			_, err := decodeResponse(resp)
			if err == nil {
				err = fmt.Errorf("a2a: expected event stream, got %q", resp.Header.Get("Content-Type"))
			}
			yield(nil, err)
			return
		}

		for data, err := range readSSE(resp.Body) {
			if err != nil {
				yield(nil, fmt.Errorf("a2a: read stream: %w", err))
				return
			}

			var frame rawResponse
			if err := json.Unmarshal(data, &frame); err != nil {
				yield(nil, fmt.Errorf("a2a: decode frame: %w", err))
				return
			}
			if frame.Error != nil {
				yield(nil, frame.Error)
				return
			}
			ev, err := DecodeEvent(frame.Result)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(ev, nil) || ev.Terminal() {
				return
			}
		}
	}
}

// TextParams builds send params for a user text message.
func TextParams(text, contextID, taskID string) MessageSendParams {
	msg := NewMessage(MessageRoleUser, NewTextPart(text))
	if contextID != "" {
		msg.ContextID = &contextID
	}
	if taskID != "" {
		msg.TaskID = &taskID
	}
	return MessageSendParams{Message: msg}
}

func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	resp, err := c.post(ctx, method, params, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeResponse(resp)
}

func (c *Client) post(ctx context.Context, method string, params any, accept string) (*http.Response, error) {
	rawParams, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("a2a: marshal params: %w", err)
	}
	body, err := json.Marshal(Request{
		JSONRPC: JSONRPCVersion,
		ID:      fmt.Sprintf("%d", c.nextID.Add(1)),
		Method:  method,
		Params:  rawParams,
	})
	if err != nil {
		return nil, fmt.Errorf("a2a: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("a2a: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("a2a: %s: %w", method, err)
	}
	return resp, nil
}

// decodeResponse reads a JSON-RPC response. Error envelopes are returned
// as *Error whatever the HTTP status.
func decodeResponse(resp *http.Response) (json.RawMessage, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("a2a: read response: %w", err)
	}

	var rpcResp rawResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("a2a: decode response (status %d): %w", resp.StatusCode, err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}

// readSSE yields the data payload of each server-sent event in r.
func readSSE(r io.Reader) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

		var data bytes.Buffer
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case line == "":
				if data.Len() == 0 {
					continue
				}
				payload := bytes.Clone(data.Bytes())
				data.Reset()
				if !yield(payload, nil) {
					return
				}
			case strings.HasPrefix(line, "data:"):
				if data.Len() > 0 {
					data.WriteByte('\n')
				}
				data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
			default:
				// Comments, event names and ids carry nothing we use.
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, err)
			return
		}
		if data.Len() > 0 {
			yield(data.Bytes(), nil)
		}
	}
}
