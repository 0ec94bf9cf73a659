package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	ai "github.com/spetersoncode/scholar"
)

// Defaults for MemoryStore retention.
const (
	DefaultMaxThreads = 1024
	DefaultTTL        = time.Hour
)

type thread struct {
	id       string
	sem      chan struct{}
	messages *MessageStore
	refs     int // holders and waiters, guarded by MemoryStore.mu
}

func newThread(id string) *thread {
	return &thread{id: id, sem: make(chan struct{}, 1), messages: NewMessageStore()}
}

// MemoryStore keeps threads in process memory.
//
// Threads nobody holds or waits on live in an LRU bounded by MaxThreads
// with an idle TTL; each acquire refreshes both. Threads in use are pinned
// in a separate table so eviction never splits a live conversation.
// MemoryStore.mu only guards those tables; ownership of a thread is a
// per-thread channel lock.
type MemoryStore struct {
	mu     sync.Mutex
	active map[string]*thread
	idle   *expirable.LRU[string, *thread]
	logger *slog.Logger
}

type memoryOptions struct {
	maxThreads int
	ttl        time.Duration
	logger     *slog.Logger
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*memoryOptions)

// WithMaxThreads bounds the number of idle threads retained.
func WithMaxThreads(n int) MemoryOption {
	return func(o *memoryOptions) { o.maxThreads = n }
}

// WithTTL sets how long an idle thread is retained after last use.
func WithTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) { o.ttl = d }
}

// WithLogger sets the logger used for eviction notices.
func WithLogger(l *slog.Logger) MemoryOption {
	return func(o *memoryOptions) { o.logger = l }
}

// NewMemoryStore creates an in-memory Store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	o := memoryOptions{
		maxThreads: DefaultMaxThreads,
		ttl:        DefaultTTL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &MemoryStore{
		active: make(map[string]*thread),
		logger: o.logger,
	}
	s.idle = expirable.NewLRU[string, *thread](o.maxThreads, func(id string, th *thread) {
		s.logger.Debug("conversation thread evicted", "thread_id", id, "messages", th.messages.Len())
	}, o.ttl)
	return s
}

// Acquire implements Store.
func (s *MemoryStore) Acquire(ctx context.Context, threadID string) (*Session, error) {
	if threadID == "" {
		return nil, ErrEmptyThreadID
	}

	th := s.checkout(threadID)
	select {
	case th.sem <- struct{}{}:
	case <-ctx.Done():
		s.checkin(th)
		return nil, ctx.Err()
	}

	return newSession(threadID, th.messages, func() {
		<-th.sem
		s.checkin(th)
	}), nil
}

// Messages implements Store.
func (s *MemoryStore) Messages(threadID string) []ai.Message {
	s.mu.Lock()
	th, ok := s.active[threadID]
	if !ok {
		th, ok = s.idle.Peek(threadID)
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return th.messages.Messages()
}

// Len implements Store.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.idle.Len()
	for id := range s.active {
		if !s.idle.Contains(id) {
			n++
		}
	}
	return n
}

// checkout finds or creates a thread and pins it while in use.
func (s *MemoryStore) checkout(id string) *thread {
	s.mu.Lock()
	defer s.mu.Unlock()

	th, ok := s.active[id]
	if !ok {
		if th, ok = s.idle.Get(id); !ok {
			th = newThread(id)
		}
		s.active[id] = th
	}
	th.refs++
	return th
}

// checkin unpins a thread once its last holder or waiter is gone and
// hands it to the LRU, refreshing its TTL.
func (s *MemoryStore) checkin(th *thread) {
	s.mu.Lock()
	defer s.mu.Unlock()

	th.refs--
	if th.refs > 0 {
		return
	}
	delete(s.active, th.id)
	s.idle.Add(th.id, th)
}

var _ Store = (*MemoryStore)(nil)
