package agent

import "errors"

// ErrLoopExceeded is returned when the engine keeps requesting tools past
// the step limit.
var ErrLoopExceeded = errors.New("agent: maximum steps exceeded")

// ErrRunConsumed is returned when a run's sequence is iterated twice.
var ErrRunConsumed = errors.New("agent: run already consumed")
