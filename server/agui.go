package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/scholar/a2a"
	"github.com/spetersoncode/scholar/agui"
)

// aguiHandler runs tasks for AG-UI frontends and streams AG-UI events.
type aguiHandler struct {
	executor *a2a.Executor
	logger   *slog.Logger
}

func (h *aguiHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var input agui.RunAgentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	log := h.logger.With(
		"run_id", input.RunID,
		"thread_id", input.ThreadID,
		"assistant_id", r.PathValue("assistant_id"),
	)

	prepared, err := input.Prepare()
	if err != nil {
		log.Warn("invalid input", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rc, err := a2a.NewRequestContext(prepared.SendParams())
	if err != nil {
		log.Warn("invalid input", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	x, err := h.executor.Begin(rc)
	if err != nil {
		log.Warn("task rejected", "error", err)
		status := http.StatusBadRequest
		if errors.Is(err, a2a.ErrTaskNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	mapper := agui.NewMapper(prepared.ThreadID, prepared.RunID)
	var eventCount int
	write := func(ev aguievents.Event) error {
		eventCount++
		log.Debug("sending SSE event", "event_type", ev.Type(), "event_num", eventCount)
		return writeAGUIEvent(w, flusher, ev)
	}

	if err := write(mapper.RunStarted()); err != nil {
		log.Error("failed to write SSE event", "error", err)
		return
	}

	// Events are written as they are emitted; the sink blocks the task
	// while the client reads.
	sink := a2a.SinkFunc(func(ctx context.Context, ev a2a.Event) error {
		for _, out := range mapper.MapEvent(ev) {
			if err := write(out); err != nil {
				return err
			}
		}
		return nil
	})

	if err := x.Run(r.Context(), sink); err != nil {
		log.Error("request failed",
			"duration_ms", time.Since(start).Milliseconds(),
			"events_sent", eventCount,
			"error", err,
		)
		return
	}

	log.Info("request completed",
		"task_id", x.TaskID(),
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", eventCount,
	)
}

// writeAGUIEvent writes an AG-UI event in SSE format.
func writeAGUIEvent(w http.ResponseWriter, flusher http.Flusher, ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), string(data)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}
