package a2a

import (
	"github.com/google/uuid"
)

// Mapper builds the events of one task and tracks its state.
//
// Create a new Mapper for each task using NewMapper. A Mapper is not safe
// for concurrent use.
type Mapper struct {
	taskID    string
	contextID string
	state     TaskState
}

// NewMapper creates a Mapper for a task. Empty ids are generated.
func NewMapper(taskID, contextID string) *Mapper {
	if taskID == "" {
		taskID = uuid.New().String()
	}
	if contextID == "" {
		contextID = uuid.New().String()
	}
	return &Mapper{
		taskID:    taskID,
		contextID: contextID,
		state:     TaskStateSubmitted,
	}
}

// TaskID returns the task id.
func (m *Mapper) TaskID() string { return m.taskID }

// ContextID returns the context id.
func (m *Mapper) ContextID() string { return m.contextID }

// State returns the state of the last status update.
func (m *Mapper) State() TaskState { return m.state }

// StatusUpdate records a transition and returns its event. An empty text
// produces a status without a message.
func (m *Mapper) StatusUpdate(state TaskState, text string, final bool) *StatusUpdateEvent {
	m.state = state
	var msg *Message
	if text != "" {
		msg = NewAgentText(m.taskID, m.contextID, text)
	}
	return &StatusUpdateEvent{
		EventKind: KindStatusUpdate,
		TaskID:    m.taskID,
		ContextID: m.contextID,
		Status:    NewTaskStatus(state, msg),
		Final:     final,
	}
}

// Submitted reports task creation.
func (m *Mapper) Submitted() *StatusUpdateEvent {
	return m.StatusUpdate(TaskStateSubmitted, "", false)
}

// Working reports progress. text describes the current activity.
func (m *Mapper) Working(text string) *StatusUpdateEvent {
	return m.StatusUpdate(TaskStateWorking, text, false)
}

// InputRequired ends the execution with a question for the user.
func (m *Mapper) InputRequired(question string) *StatusUpdateEvent {
	return m.StatusUpdate(TaskStateInputRequired, question, true)
}

// Failed ends the task with an error description.
func (m *Mapper) Failed(reason string) *StatusUpdateEvent {
	return m.StatusUpdate(TaskStateFailed, reason, true)
}

// Result returns the artifact update carrying the final answer.
func (m *Mapper) Result(text string) *ArtifactUpdateEvent {
	a := NewArtifact(ResultArtifactName, NewTextPart(text))
	return &ArtifactUpdateEvent{
		EventKind: KindArtifactUpdate,
		TaskID:    m.taskID,
		ContextID: m.contextID,
		Artifact:  a,
		LastChunk: true,
	}
}

// Completion ends the task successfully.
func (m *Mapper) Completion() *CompletionEvent {
	m.state = TaskStateCompleted
	return &CompletionEvent{
		EventKind: KindCompletion,
		TaskID:    m.taskID,
		ContextID: m.contextID,
		State:     TaskStateCompleted,
	}
}

// Apply folds an event into a task snapshot.
func Apply(t *Task, ev Event) {
	switch e := ev.(type) {
	case *StatusUpdateEvent:
		t.Status = e.Status
	case *ArtifactUpdateEvent:
		t.Artifacts = append(t.Artifacts, e.Artifact)
	case *CompletionEvent:
		t.Status = NewTaskStatus(e.State, nil)
	}
}
