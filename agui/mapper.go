package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/scholar/a2a"
)

// Mapper converts A2A task events to AG-UI events for one run.
type Mapper struct {
	threadID string
	runID    string
	step     string
}

// NewMapper creates a Mapper. Empty ids are generated.
func NewMapper(threadID, runID string) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{
		threadID: threadID,
		runID:    runID,
	}
}

// ThreadID returns the thread id.
func (m *Mapper) ThreadID() string { return m.threadID }

// RunID returns the run id.
func (m *Mapper) RunID() string { return m.runID }

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished returns a RUN_FINISHED event.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError returns a RUN_ERROR event.
func (m *Mapper) RunError(msg string) events.Event {
	if msg == "" {
		msg = "unknown error"
	}
	return events.NewRunErrorEvent(msg)
}

// MapEvent converts one task event. It returns nil for events with no
// AG-UI counterpart, such as the submitted status.
func (m *Mapper) MapEvent(ev a2a.Event) []events.Event {
	switch e := ev.(type) {
	case *a2a.StatusUpdateEvent:
		return m.mapStatus(e)
	case *a2a.ArtifactUpdateEvent:
		return m.textMessage(e.Artifact.TextContent())
	case *a2a.CompletionEvent:
		return append(m.closeStep(), m.RunFinished())
	default:
		return nil
	}
}

func (m *Mapper) mapStatus(e *a2a.StatusUpdateEvent) []events.Event {
	var text string
	if e.Status.Message != nil {
		text = e.Status.Message.TextContent()
	}

	switch e.Status.State {
	case a2a.TaskStateWorking:
		if text == "" {
			return nil
		}
		out := m.closeStep()
		m.step = text
		return append(out, events.NewStepStartedEvent(text))
	case a2a.TaskStateInputRequired:
		out := m.closeStep()
		out = append(out, m.textMessage(text)...)
		return append(out, m.RunFinished())
	case a2a.TaskStateFailed:
		return append(m.closeStep(), m.RunError(text))
	default:
		return nil
	}
}

func (m *Mapper) closeStep() []events.Event {
	if m.step == "" {
		return nil
	}
	ev := events.NewStepFinishedEvent(m.step)
	m.step = ""
	return []events.Event{ev}
}

func (m *Mapper) textMessage(text string) []events.Event {
	if text == "" {
		return nil
	}
	id := events.GenerateMessageID()
	return []events.Event{
		events.NewTextMessageStartEvent(id, events.WithRole(RoleAssistant)),
		events.NewTextMessageContentEvent(id, text),
		events.NewTextMessageEndEvent(id),
	}
}
