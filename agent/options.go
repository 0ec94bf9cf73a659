package agent

import "time"

// Defaults for agent execution.
const (
	DefaultMaxSteps       = 10
	DefaultHandlerTimeout = 30 * time.Second
)

// Options contains configuration for a run.
type Options struct {
	// MaxSteps bounds the number of reasoning steps. Values below 1 mean
	// DefaultMaxSteps; the loop is never unbounded.
	MaxSteps int

	// Timeout bounds the whole run. Zero leaves the context deadline in charge.
	Timeout time.Duration

	// HandlerTimeout bounds each tool invocation. Zero disables it.
	HandlerTimeout time.Duration

	// ParallelToolCalls runs the tool calls of one step concurrently.
	ParallelToolCalls bool
}

// Option is a functional option for configuring a run.
type Option func(*Options)

// WithMaxSteps sets the maximum number of reasoning steps.
func WithMaxSteps(n int) Option {
	return func(o *Options) {
		o.MaxSteps = n
	}
}

// WithTimeout sets a deadline for the entire run.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithHandlerTimeout sets the timeout for each tool invocation.
func WithHandlerTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.HandlerTimeout = d
	}
}

// WithParallelToolCalls enables or disables concurrent tool execution.
func WithParallelToolCalls(enabled bool) Option {
	return func(o *Options) {
		o.ParallelToolCalls = enabled
	}
}

// ApplyOptions applies opts over the defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxSteps:          DefaultMaxSteps,
		HandlerTimeout:    DefaultHandlerTimeout,
		ParallelToolCalls: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.MaxSteps < 1 {
		o.MaxSteps = DefaultMaxSteps
	}
	return o
}
