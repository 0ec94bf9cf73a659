// Package store keeps conversation history per thread.
//
// A thread is created on first reference to an unseen id. Writers take
// exclusive ownership of a thread through a Session; sessions on different
// threads never block each other.
package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	ai "github.com/spetersoncode/scholar"
)

// ErrEmptyThreadID is returned when acquiring a thread without an id.
var ErrEmptyThreadID = errors.New("store: empty thread id")

// Store hands out exclusive sessions over conversation threads.
type Store interface {
	// Acquire blocks until the caller owns threadID or ctx is done.
	Acquire(ctx context.Context, threadID string) (*Session, error)
	// Messages returns a snapshot of a thread's history, or nil if unknown.
	Messages(threadID string) []ai.Message
	// Len returns the number of retained threads.
	Len() int
}

// Session is the exclusive writer of one thread until Release.
type Session struct {
	threadID string
	messages *MessageStore
	release  func()
	once     sync.Once
	released atomic.Bool
}

func newSession(threadID string, messages *MessageStore, release func()) *Session {
	return &Session{threadID: threadID, messages: messages, release: release}
}

// ThreadID returns the id of the owned thread.
func (s *Session) ThreadID() string { return s.threadID }

// Messages returns a copy of the thread's history.
func (s *Session) Messages() []ai.Message { return s.messages.Messages() }

// Len returns the number of messages in the thread.
func (s *Session) Len() int { return s.messages.Len() }

// Append adds messages to the thread. It panics after Release.
func (s *Session) Append(msgs ...ai.Message) {
	if s.released.Load() {
		panic("store: append on released session " + s.threadID)
	}
	s.messages.Append(msgs...)
}

// Release gives up ownership. Calling it more than once is a no-op.
func (s *Session) Release() {
	s.once.Do(func() {
		s.released.Store(true)
		s.release()
	})
}
