package a2a

import (
	"encoding/json"
	"fmt"
)

// Event kinds on the wire.
const (
	KindStatusUpdate   = "status-update"
	KindArtifactUpdate = "artifact-update"
	KindCompletion     = "completion"
)

// ResultArtifactName names the artifact that carries the final answer.
const ResultArtifactName = "result"

// Event is one protocol-visible step of a task. The set of implementations
// is closed: *StatusUpdateEvent, *ArtifactUpdateEvent and *CompletionEvent.
type Event interface {
	// Kind returns the wire discriminator.
	Kind() string
	// Terminal reports whether no further events follow for the task.
	Terminal() bool
	isEvent()
}

// StatusUpdateEvent reports a task state transition.
type StatusUpdateEvent struct {
	EventKind string     `json:"kind"`
	TaskID    string     `json:"taskId"`
	ContextID string     `json:"contextId"`
	Status    TaskStatus `json:"status"`
	Final     bool       `json:"final"`
}

func (*StatusUpdateEvent) Kind() string     { return KindStatusUpdate }
func (e *StatusUpdateEvent) Terminal() bool { return e.Final }
func (*StatusUpdateEvent) isEvent()         {}

// ArtifactUpdateEvent delivers an artifact.
type ArtifactUpdateEvent struct {
	EventKind string   `json:"kind"`
	TaskID    string   `json:"taskId"`
	ContextID string   `json:"contextId"`
	Artifact  Artifact `json:"artifact"`
	LastChunk bool     `json:"lastChunk"`
}

func (*ArtifactUpdateEvent) Kind() string   { return KindArtifactUpdate }
func (*ArtifactUpdateEvent) Terminal() bool { return false }
func (*ArtifactUpdateEvent) isEvent()       {}

// CompletionEvent closes a successfully completed task.
type CompletionEvent struct {
	EventKind string    `json:"kind"`
	TaskID    string    `json:"taskId"`
	ContextID string    `json:"contextId"`
	State     TaskState `json:"state"`
}

func (*CompletionEvent) Kind() string   { return KindCompletion }
func (*CompletionEvent) Terminal() bool { return true }
func (*CompletionEvent) isEvent()       {}

// DecodeEvent parses a serialized event by its kind.
func DecodeEvent(data []byte) (Event, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("a2a: decode event: %w", err)
	}

	var ev Event
	switch head.Kind {
	case KindStatusUpdate:
		ev = &StatusUpdateEvent{}
	case KindArtifactUpdate:
		ev = &ArtifactUpdateEvent{}
	case KindCompletion:
		ev = &CompletionEvent{}
	default:
		return nil, fmt.Errorf("a2a: unknown event kind %q", head.Kind)
	}
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("a2a: decode %s event: %w", head.Kind, err)
	}
	return ev, nil
}
