package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spetersoncode/scholar/a2a"
)

// rpcHandler serves the A2A JSON-RPC endpoint.
type rpcHandler struct {
	executor  *a2a.Executor
	queueSize int
	logger    *slog.Logger
}

func (h *rpcHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req a2a.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("malformed request body", "error", err)
		writeError(w, nil, a2a.NewError(a2a.CodeInternalError, "Internal error: malformed request body: %v", err))
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != a2a.JSONRPCVersion {
		writeError(w, req.ID, a2a.NewError(a2a.CodeInvalidRequest, "Invalid JSON-RPC version %q", req.JSONRPC))
		return
	}

	log := h.logger.With("method", req.Method, "id", req.ID)
	if id := r.PathValue("assistant_id"); id != "" {
		log = log.With("assistant_id", id)
	}
	log.Info("A2A request received")

	switch req.Method {
	case a2a.MethodMessageSend, a2a.MethodTasksSend:
		h.handleSend(w, r, req, log)
	case a2a.MethodMessageStream:
		h.handleStream(w, r, req, log)
	case a2a.MethodTasksGet:
		h.handleGet(w, req, log)
	case a2a.MethodTasksCancel, a2a.MethodTasksResubscribe:
		log.Info("unsupported operation")
		writeError(w, req.ID, a2a.NewError(a2a.CodeUnsupportedOperation, "Unsupported operation: %s", req.Method))
		return
	default:
		log.Warn("unknown method")
		writeError(w, req.ID, a2a.NewError(a2a.CodeMethodNotFound, "Method not found: %s", req.Method))
		return
	}

	log.Info("A2A request completed", "duration_ms", time.Since(start).Milliseconds())
}

// begin validates send params and resolves the task. On failure it writes
// the error response and returns nil.
func (h *rpcHandler) begin(w http.ResponseWriter, req a2a.Request, log *slog.Logger) *a2a.Execution {
	var params a2a.MessageSendParams
	if len(req.Params) == 0 {
		writeError(w, req.ID, a2a.NewError(a2a.CodeInvalidParams, "Invalid params: missing params"))
		return nil
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		log.Warn("invalid params", "error", err)
		writeError(w, req.ID, a2a.NewError(a2a.CodeInvalidParams, "Invalid params: %v", err))
		return nil
	}

	rc, err := a2a.NewRequestContext(params)
	if err != nil {
		log.Warn("invalid params", "error", err)
		writeError(w, req.ID, a2a.ToRPCError(err))
		return nil
	}

	x, err := h.executor.Begin(rc)
	if err != nil {
		log.Warn("task rejected", "error", err)
		writeError(w, req.ID, a2a.ToRPCError(err))
		return nil
	}
	return x
}

func (h *rpcHandler) handleSend(w http.ResponseWriter, r *http.Request, req a2a.Request, log *slog.Logger) {
	x := h.begin(w, req, log)
	if x == nil {
		return
	}

	var rec a2a.Recorder
	if err := x.Run(r.Context(), &rec); err != nil {
		log.Error("execution error", "task_id", x.TaskID(), "error", err)
		writeError(w, req.ID, a2a.ToRPCError(err))
		return
	}

	events := rec.Events()
	writeJSON(w, http.StatusOK, a2a.NewResponse(req.ID, a2a.AggregateResult{
		Events: events,
		Status: a2a.ResultStatusCompleted,
	}))
	log.Info("task finished", "task_id", x.TaskID(), "events", len(events))
}

// handleStream runs the execution and the SSE writer concurrently,
// joined by a bounded queue.
func (h *rpcHandler) handleStream(w http.ResponseWriter, r *http.Request, req a2a.Request, log *slog.Logger) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		writeError(w, req.ID, a2a.NewError(a2a.CodeInternalError, "Internal error: streaming not supported"))
		return
	}

	x := h.begin(w, req, log)
	if x == nil {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	queue := a2a.NewQueue(h.queueSize)
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() (err error) {
		defer queue.Close()
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("execution panic: %v", p)
			}
		}()
		return x.Run(ctx, queue)
	})

	var (
		sent     int
		terminal bool
	)
	g.Go(func() error {
		for {
			ev, ok := queue.Next(ctx)
			if !ok {
				return nil
			}
			if err := writeFrame(w, flusher, a2a.NewResponse(req.ID, ev)); err != nil {
				return err
			}
			sent++
			log.Debug("sent A2A event", "kind", ev.Kind(), "event_num", sent)
			if ev.Terminal() {
				terminal = true
				return nil
			}
		}
	})

	err := g.Wait()
	if !terminal && r.Context().Err() == nil {
		// The producer stopped without a terminal event. Close the stream
		// with an error frame instead of cutting it.
		if err == nil {
			err = errors.New("stream ended without a terminal event")
		}
		log.Error("stream failed", "task_id", x.TaskID(), "error", err)
		_ = writeFrame(w, flusher, a2a.NewErrorResponse(req.ID, a2a.NewError(a2a.CodeInternalError, "Internal error: %v", err)))
		return
	}
	if err != nil {
		log.Warn("stream interrupted", "task_id", x.TaskID(), "events_sent", sent, "error", err)
		return
	}
	log.Info("task streamed", "task_id", x.TaskID(), "events_sent", sent)
}

func (h *rpcHandler) handleGet(w http.ResponseWriter, req a2a.Request, log *slog.Logger) {
	var params a2a.TaskIDParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.ID == "" {
		writeError(w, req.ID, a2a.NewError(a2a.CodeInvalidParams, "Invalid params: task id is required"))
		return
	}

	task, err := h.executor.Task(params.ID)
	if err != nil {
		log.Warn("task lookup failed", "task_id", params.ID, "error", err)
		writeError(w, req.ID, a2a.ToRPCError(err))
		return
	}
	writeJSON(w, http.StatusOK, a2a.NewResponse(req.ID, task))
}

// writeFrame writes one SSE data frame and flushes it.
func writeFrame(w http.ResponseWriter, flusher http.Flusher, resp a2a.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	flusher.Flush()
	return nil
}

// writeError writes a JSON-RPC error envelope with a matching HTTP status.
func writeError(w http.ResponseWriter, id any, rpcErr *a2a.Error) {
	writeJSON(w, httpStatus(rpcErr.Code), a2a.NewErrorResponse(id, rpcErr))
}

func httpStatus(code int) int {
	switch code {
	case a2a.CodeMethodNotFound, a2a.CodeTaskNotFound:
		return http.StatusNotFound
	case a2a.CodeInvalidParams, a2a.CodeInvalidRequest, a2a.CodeUnsupportedOperation:
		return http.StatusBadRequest
	case a2a.CodeTaskNotResumable:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
