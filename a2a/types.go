package a2a

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageRole indicates the originator of a message.
type MessageRole string

const (
	MessageRoleUser  MessageRole = "user"
	MessageRoleAgent MessageRole = "agent"
)

// TaskState is the lifecycle state of a task.
type TaskState string

const (
	TaskStateSubmitted     TaskState = "submitted"
	TaskStateWorking       TaskState = "working"
	TaskStateInputRequired TaskState = "input-required"
	TaskStateCompleted     TaskState = "completed"
	TaskStateFailed        TaskState = "failed"
	TaskStateCanceled      TaskState = "canceled"
	TaskStateRejected      TaskState = "rejected"
)

// IsTerminal reports whether the task can make no further progress.
// input-required ends the current execution but the task may be resumed
// by a follow-up message, so it is not terminal.
func (s TaskState) IsTerminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateFailed, TaskStateCanceled, TaskStateRejected:
		return true
	default:
		return false
	}
}

// Message is a single exchange between a user and an agent.
type Message struct {
	Kind      string         `json:"kind"`
	MessageID string         `json:"messageId"`
	Role      MessageRole    `json:"role"`
	Parts     []Part         `json:"parts"`
	ContextID *string        `json:"contextId,omitempty"`
	TaskID    *string        `json:"taskId,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewMessage creates a message with a fresh id.
func NewMessage(role MessageRole, parts ...Part) Message {
	return Message{
		Kind:      "message",
		MessageID: uuid.New().String(),
		Role:      role,
		Parts:     parts,
	}
}

// NewAgentText creates an agent message bound to a task.
func NewAgentText(taskID, contextID, text string) *Message {
	m := NewMessage(MessageRoleAgent, NewTextPart(text))
	m.TaskID = &taskID
	m.ContextID = &contextID
	return &m
}

// TextContent returns the text of all TextParts joined by newlines.
func (m Message) TextContent() string {
	return partsText(m.Parts)
}

// UnmarshalJSON decodes the polymorphic Parts field.
func (m *Message) UnmarshalJSON(data []byte) error {
	type messageAlias Message
	var tmp struct {
		messageAlias
		Parts []json.RawMessage `json:"parts"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}

	parts, err := unmarshalParts(tmp.Parts)
	if err != nil {
		return err
	}
	*m = Message(tmp.messageAlias)
	m.Parts = parts
	return nil
}

// Part is a segment of a message or artifact.
type Part interface {
	partMarker()
	GetKind() string
}

// TextPart is a text segment.
type TextPart struct {
	Kind     string         `json:"kind"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (TextPart) partMarker()       {}
func (p TextPart) GetKind() string { return p.Kind }

// NewTextPart creates a TextPart.
func NewTextPart(text string) TextPart {
	return TextPart{Kind: "text", Text: text}
}

// FilePart is a file, inline or by reference.
type FilePart struct {
	Kind     string         `json:"kind"`
	File     FileContent    `json:"file"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (FilePart) partMarker()       {}
func (p FilePart) GetKind() string { return p.Kind }

// FileContent holds base64 bytes or a URI.
type FileContent struct {
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Bytes    string `json:"bytes,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// DataPart is arbitrary structured data.
type DataPart struct {
	Kind     string         `json:"kind"`
	Data     any            `json:"data"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func (DataPart) partMarker()       {}
func (p DataPart) GetKind() string { return p.Kind }

// NewDataPart creates a DataPart.
func NewDataPart(data any) DataPart {
	return DataPart{Kind: "data", Data: data}
}

// UnmarshalPart decodes a Part by its kind. Unknown kinds decode as DataPart.
func UnmarshalPart(data []byte) (Part, error) {
	var raw struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	switch raw.Kind {
	case "text":
		var p TextPart
		err := json.Unmarshal(data, &p)
		return p, err
	case "file":
		var p FilePart
		err := json.Unmarshal(data, &p)
		return p, err
	default:
		var p DataPart
		err := json.Unmarshal(data, &p)
		return p, err
	}
}

func unmarshalParts(raws []json.RawMessage) ([]Part, error) {
	parts := make([]Part, 0, len(raws))
	for _, raw := range raws {
		part, err := UnmarshalPart(raw)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func partsText(parts []Part) string {
	var texts []string
	for _, p := range parts {
		if tp, ok := p.(TextPart); ok {
			texts = append(texts, tp.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// TaskStatus is the current status of a task.
type TaskStatus struct {
	State     TaskState `json:"state"`
	Message   *Message  `json:"message,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"`
}

// NewTaskStatus creates a status stamped with the current time.
func NewTaskStatus(state TaskState, msg *Message) TaskStatus {
	return TaskStatus{
		State:     state,
		Message:   msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Task is one execution of the agent for one client request.
type Task struct {
	Kind      string     `json:"kind"`
	ID        string     `json:"id"`
	ContextID string     `json:"contextId"`
	Status    TaskStatus `json:"status"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
	History   []Message  `json:"history,omitempty"`
}

// NewTask creates a submitted task.
func NewTask(id, contextID string) *Task {
	return &Task{
		Kind:      "task",
		ID:        id,
		ContextID: contextID,
		Status:    NewTaskStatus(TaskStateSubmitted, nil),
	}
}

// Clone returns a copy that shares no slices with t.
func (t *Task) Clone() *Task {
	c := *t
	c.Artifacts = append([]Artifact(nil), t.Artifacts...)
	c.History = append([]Message(nil), t.History...)
	return &c
}

// Artifact is a client-visible output of a task.
type Artifact struct {
	ArtifactID  string         `json:"artifactId"`
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Parts       []Part         `json:"parts"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewArtifact creates an artifact with a fresh id.
func NewArtifact(name string, parts ...Part) Artifact {
	return Artifact{
		ArtifactID: uuid.New().String(),
		Name:       name,
		Parts:      parts,
	}
}

// TextContent returns the text of the artifact's TextParts.
func (a Artifact) TextContent() string {
	return partsText(a.Parts)
}

// UnmarshalJSON decodes the polymorphic Parts field.
func (a *Artifact) UnmarshalJSON(data []byte) error {
	type artifactAlias Artifact
	var tmp struct {
		artifactAlias
		Parts []json.RawMessage `json:"parts"`
	}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}

	parts, err := unmarshalParts(tmp.Parts)
	if err != nil {
		return err
	}
	*a = Artifact(tmp.artifactAlias)
	a.Parts = parts
	return nil
}
