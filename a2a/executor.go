package a2a

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	ai "github.com/spetersoncode/scholar"
	"github.com/spetersoncode/scholar/agent"
	"github.com/spetersoncode/scholar/store"
)

// Runner runs the agent loop over a conversation history.
// *agent.Agent implements it.
type Runner interface {
	Run(ctx context.Context, history agent.History, opts ...agent.Option) iter.Seq2[agent.Turn, error]
}

// Executor turns send requests into task executions.
//
// Begin resolves the task a request refers to, so protocol errors such as
// an unknown task id surface before any event is emitted. The returned
// Execution then drives the agent loop and emits the task's events.
type Executor struct {
	runner     Runner
	store      store.Store
	tasks      *TaskStore
	classifier Classifier
	logger     *slog.Logger
	agentOpts  []agent.Option

	// mu makes resolve-and-claim in Begin atomic so an input-required task
	// is resumed by at most one request.
	mu sync.Mutex
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithClassifier sets how final answers are classified.
// Defaults to DefaultClassifier.
func WithClassifier(c Classifier) ExecutorOption {
	return func(e *Executor) { e.classifier = c }
}

// WithTaskStore sets the task store. Defaults to a store of DefaultMaxTasks.
func WithTaskStore(ts *TaskStore) ExecutorOption {
	return func(e *Executor) { e.tasks = ts }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = l }
}

// WithAgentOptions sets options passed to every agent run.
func WithAgentOptions(opts ...agent.Option) ExecutorOption {
	return func(e *Executor) { e.agentOpts = opts }
}

// NewExecutor creates an executor over an agent runner and a conversation store.
func NewExecutor(runner Runner, st store.Store, opts ...ExecutorOption) *Executor {
	e := &Executor{
		runner: runner,
		store:  st,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tasks == nil {
		e.tasks = NewTaskStore(DefaultMaxTasks)
	}
	if e.classifier == nil {
		e.classifier = DefaultClassifier{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Tasks returns the executor's task store.
func (e *Executor) Tasks() *TaskStore {
	return e.tasks
}

// Task returns a task snapshot including the conversation history of its
// context.
func (e *Executor) Task(id string) (*Task, error) {
	t, ok := e.tasks.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	t.History = FromAIMessages(e.store.Messages(t.ContextID), "", t.ContextID)
	return t, nil
}

// Begin resolves req to a new or resumed task. It returns ErrTaskNotFound
// for an unknown task id and ErrTaskNotResumable for a task that is not
// waiting for input.
func (e *Executor) Begin(req RequestContext) (*Execution, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if req.TaskID == "" {
		mapper := NewMapper(uuid.New().String(), req.ContextID)
		task := NewTask(mapper.TaskID(), mapper.ContextID())
		e.tasks.Put(task)
		return &Execution{executor: e, req: req, mapper: mapper, task: task}, nil
	}

	task, ok := e.tasks.Get(req.TaskID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, req.TaskID)
	}
	if task.Status.State != TaskStateInputRequired {
		return nil, fmt.Errorf("%w: %s is %s", ErrTaskNotResumable, task.ID, task.Status.State)
	}
	if req.ContextID != "" && req.ContextID != task.ContextID {
		return nil, fmt.Errorf("%w: task %s belongs to context %s", ErrInvalidParams, task.ID, task.ContextID)
	}

	// Claim the task so a concurrent resume is rejected.
	task.Status = NewTaskStatus(TaskStateWorking, nil)
	e.tasks.Put(task)

	mapper := NewMapper(task.ID, task.ContextID)
	return &Execution{executor: e, req: req, mapper: mapper, task: task, resumed: true}, nil
}

// Execution is one run of a task. It is single-use.
type Execution struct {
	executor *Executor
	req      RequestContext
	mapper   *Mapper
	task     *Task
	resumed  bool
}

// TaskID returns the id of the task being executed.
func (x *Execution) TaskID() string { return x.mapper.TaskID() }

// ContextID returns the conversation id of the task.
func (x *Execution) ContextID() string { return x.mapper.ContextID() }

// Resumed reports whether the execution continues an input-required task.
func (x *Execution) Resumed() bool { return x.resumed }

// Run drives the agent loop and emits the task's events to sink. Agent
// failures, panics included, become a failed status update and are not
// returned; Run only returns an error when sink rejects an event.
func (x *Execution) Run(ctx context.Context, sink EventSink) (err error) {
	log := x.executor.logger.With("task_id", x.TaskID(), "context_id", x.ContextID())
	log.InfoContext(ctx, "task started", "resumed", x.resumed)

	defer func() {
		if p := recover(); p != nil {
			err = x.fail(ctx, log, sink, fmt.Errorf("agent panic: %v", p))
		}
	}()
	return x.run(ctx, log, sink)
}

func (x *Execution) run(ctx context.Context, log *slog.Logger, sink EventSink) error {
	if !x.resumed {
		if err := x.emit(ctx, sink, x.mapper.Submitted()); err != nil {
			return x.abort(ctx, log, err)
		}
	}
	if err := x.emit(ctx, sink, x.mapper.Working("")); err != nil {
		return x.abort(ctx, log, err)
	}

	session, err := x.executor.store.Acquire(ctx, x.ContextID())
	if err != nil {
		return x.fail(ctx, log, sink, err)
	}
	defer session.Release()

	user := ToAIMessage(x.req.Message)
	user.Role = ai.RoleUser
	user.Content = x.req.Query
	session.Append(user)

	for turn, err := range x.executor.runner.Run(ctx, session, x.executor.agentOpts...) {
		if err != nil {
			return x.fail(ctx, log, sink, err)
		}

		switch turn.State {
		case agent.StateToolExecuting:
			log.DebugContext(ctx, "tool activity", "step", turn.Step, "calls", len(turn.Message.ToolCalls))
			if err := x.emit(ctx, sink, x.mapper.Working(toolActivity(turn.Message.ToolCalls))); err != nil {
				return x.abort(ctx, log, err)
			}
		case agent.StateDone:
			return x.finish(ctx, log, sink, turn.Message.Content)
		}
	}

	// The loop ended without an answer or error.
	return x.fail(ctx, log, sink, errors.New("agent stopped without a final answer"))
}

func (x *Execution) finish(ctx context.Context, log *slog.Logger, sink EventSink, content string) error {
	verdict := x.executor.classifier.Classify(content)
	log.InfoContext(ctx, "task answered", "outcome", verdict.Outcome.String())

	switch verdict.Outcome {
	case OutcomeInputRequired:
		if err := x.emit(ctx, sink, x.mapper.InputRequired(verdict.Text)); err != nil {
			return x.abort(ctx, log, err)
		}
	case OutcomeFailed:
		if err := x.emit(ctx, sink, x.mapper.Failed(verdict.Text)); err != nil {
			return x.abort(ctx, log, err)
		}
	default:
		if err := x.emit(ctx, sink, x.mapper.Result(verdict.Text)); err != nil {
			return x.abort(ctx, log, err)
		}
		if err := x.emit(ctx, sink, x.mapper.Completion()); err != nil {
			return x.abort(ctx, log, err)
		}
	}
	return nil
}

// fail ends the task with a failed status update describing cause.
func (x *Execution) fail(ctx context.Context, log *slog.Logger, sink EventSink, cause error) error {
	log.ErrorContext(ctx, "task failed", "error", cause)
	ev := x.mapper.Failed(failureText(cause))
	if err := x.emit(ctx, sink, ev); err != nil {
		return x.abort(ctx, log, err)
	}
	return nil
}

// abort records a failed task after the sink stopped accepting events.
func (x *Execution) abort(ctx context.Context, log *slog.Logger, cause error) error {
	log.WarnContext(ctx, "event delivery stopped", "error", cause)
	if !x.task.Status.State.IsTerminal() {
		Apply(x.task, x.mapper.Failed("event delivery stopped: "+cause.Error()))
		x.executor.tasks.Put(x.task)
	}
	return cause
}

func (x *Execution) emit(ctx context.Context, sink EventSink, ev Event) error {
	Apply(x.task, ev)
	x.executor.tasks.Put(x.task)
	return sink.Emit(ctx, ev)
}

func toolActivity(calls []ai.ToolCall) string {
	names := make([]string, 0, len(calls))
	for _, c := range calls {
		names = append(names, c.Name)
	}
	return "Calling tools: " + strings.Join(names, ", ")
}

func failureText(err error) string {
	switch {
	case errors.Is(err, agent.ErrLoopExceeded):
		return "The agent did not reach an answer within its step limit."
	case errors.Is(err, context.DeadlineExceeded):
		return "The task timed out."
	case errors.Is(err, context.Canceled):
		return "The task was interrupted."
	default:
		return "The task failed: " + err.Error()
	}
}
