package a2a

import (
	"context"
	"sync"
)

// EventSink receives the events of one task in emission order.
type EventSink interface {
	Emit(ctx context.Context, ev Event) error
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(ctx context.Context, ev Event) error

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, ev Event) error { return f(ctx, ev) }

// DefaultQueueSize is the capacity of a Queue created with size < 1.
const DefaultQueueSize = 64

// Queue is a bounded FIFO connecting a producing execution with a
// consuming transport. Emit blocks while the queue is full and Next blocks
// while it is empty. It is safe for one producer and one consumer.
type Queue struct {
	ch        chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a queue holding up to size events.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = DefaultQueueSize
	}
	return &Queue{
		ch:   make(chan Event, size),
		done: make(chan struct{}),
	}
}

// Emit enqueues ev, waiting for space.
func (q *Queue) Emit(ctx context.Context, ev Event) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	select {
	case q.ch <- ev:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next dequeues the next event. It returns false once the queue is closed
// and drained, or when ctx is done.
func (q *Queue) Next(ctx context.Context) (Event, bool) {
	// Buffered events are delivered before closure is observed.
	select {
	case ev := <-q.ch:
		return ev, true
	default:
	}

	select {
	case ev := <-q.ch:
		return ev, true
	case <-q.done:
		select {
		case ev := <-q.ch:
			return ev, true
		default:
			return nil, false
		}
	case <-ctx.Done():
		return nil, false
	}
}

// Close marks the end of the stream. Buffered events can still be read.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}

// Recorder buffers events for aggregate responses.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends ev.
func (r *Recorder) Emit(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
