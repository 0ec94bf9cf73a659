package agent

import (
	"context"
	"fmt"
	"iter"
	"sync/atomic"

	conciter "github.com/sourcegraph/conc/iter"

	ai "github.com/spetersoncode/scholar"
	"github.com/spetersoncode/scholar/reasoning"
)

// History is the conversation a run reads and appends to.
// A store.Session satisfies it.
type History interface {
	Messages() []ai.Message
	Append(msgs ...ai.Message)
}

// Invoker executes tool calls. Invoke must not fail: problems are reported
// in the returned result. A *tool.Registry satisfies it.
type Invoker interface {
	Tools() []ai.Tool
	Invoke(ctx context.Context, call ai.ToolCall) ai.ToolResult
}

// Agent alternates between a reasoning engine and tools until the engine
// produces a final answer.
type Agent struct {
	engine reasoning.Engine
	tools  Invoker
	opts   []Option
}

// New creates an Agent. opts become the defaults for every run.
func New(engine reasoning.Engine, tools Invoker, opts ...Option) *Agent {
	return &Agent{engine: engine, tools: tools, opts: opts}
}

// Run returns a lazy, single-use sequence of turns over history.
//
// Each reasoning step appends the engine's message. If it requests tools,
// the sequence yields a StateToolExecuting turn, invokes every call, appends
// one tool message with the results in request order and yields a
// StateReasoning turn. A message without tool calls yields the StateDone
// turn and ends the sequence. Any failure is yielded once as the error and
// also ends it; exceeding MaxSteps yields ErrLoopExceeded.
func (a *Agent) Run(ctx context.Context, history History, opts ...Option) iter.Seq2[Turn, error] {
	options := ApplyOptions(append(append([]Option{}, a.opts...), opts...)...)
	var consumed atomic.Bool

	return func(yield func(Turn, error) bool) {
		if !consumed.CompareAndSwap(false, true) {
			yield(Turn{}, ErrRunConsumed)
			return
		}

		if options.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, options.Timeout)
			defer cancel()
		}

		a.loop(ctx, history, options, yield)
	}
}

func (a *Agent) loop(ctx context.Context, history History, options *Options, yield func(Turn, error) bool) {
	tools := a.tools.Tools()

	for step := 1; ; step++ {
		if err := ctx.Err(); err != nil {
			yield(Turn{Step: step}, fmt.Errorf("agent: step %d: %w", step, err))
			return
		}
		if step > options.MaxSteps {
			yield(Turn{Step: step}, fmt.Errorf("%w (%d)", ErrLoopExceeded, options.MaxSteps))
			return
		}

		msg, err := a.engine.Decide(ctx, history.Messages(), tools)
		if err != nil {
			yield(Turn{Step: step, State: StateReasoning}, err)
			return
		}
		history.Append(msg)

		// Tool calls take priority over any content in the same message.
		if !msg.HasToolCalls() {
			yield(Turn{Step: step, State: StateDone, Message: msg}, nil)
			return
		}
		if !yield(Turn{Step: step, State: StateToolExecuting, Message: msg}, nil) {
			// Every tool call must be answered or the thread is unusable
			// for the next run.
			history.Append(ai.NewToolResultMessage(cancelledResults(msg.ToolCalls)...))
			return
		}

		results := a.invokeAll(ctx, msg.ToolCalls, options)
		toolMsg := ai.NewToolResultMessage(results...)
		history.Append(toolMsg)

		if !yield(Turn{Step: step, State: StateReasoning, Message: toolMsg}, nil) {
			return
		}
	}
}

// cancelledContent answers calls that were never run.
const cancelledContent = "tool call cancelled: the run stopped before it executed"

func cancelledResults(calls []ai.ToolCall) []ai.ToolResult {
	results := make([]ai.ToolResult, len(calls))
	for i, call := range calls {
		results[i] = ai.ToolResult{ToolCallID: call.ID, Name: call.Name, Content: cancelledContent, IsError: true}
	}
	return results
}

// invokeAll runs calls and returns their results in request order,
// whatever order they complete in.
func (a *Agent) invokeAll(ctx context.Context, calls []ai.ToolCall, options *Options) []ai.ToolResult {
	if !options.ParallelToolCalls || len(calls) == 1 {
		results := make([]ai.ToolResult, len(calls))
		for i, call := range calls {
			results[i] = a.invoke(ctx, call, options)
		}
		return results
	}

	return conciter.Map(calls, func(call *ai.ToolCall) ai.ToolResult {
		return a.invoke(ctx, *call, options)
	})
}

func (a *Agent) invoke(ctx context.Context, call ai.ToolCall, options *Options) ai.ToolResult {
	if options.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.HandlerTimeout)
		defer cancel()
	}

	result := a.tools.Invoke(ctx, call)
	result.ToolCallID = call.ID
	if result.Name == "" {
		result.Name = call.Name
	}
	return result
}
