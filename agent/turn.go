package agent

import ai "github.com/spetersoncode/scholar"

// State is a state of the agent loop.
type State string

const (
	// StateReasoning waits on the reasoning engine.
	StateReasoning State = "reasoning"
	// StateToolExecuting runs the tools the engine asked for.
	StateToolExecuting State = "tool_executing"
	// StateDone holds the final answer. It is terminal.
	StateDone State = "done"
)

// Turn is a snapshot taken after each transition: the state entered and
// the message last appended to the history.
type Turn struct {
	Step    int
	State   State
	Message ai.Message
}

// Final reports whether the turn carries the final answer.
func (t Turn) Final() bool {
	return t.State == StateDone
}
