package a2a

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxTasks bounds a TaskStore created with a non-positive size.
const DefaultMaxTasks = 4096

// TaskStore keeps task snapshots for lookup and resumption. The least
// recently used tasks are dropped once the store is full.
type TaskStore struct {
	cache *lru.Cache[string, *Task]
}

// NewTaskStore creates a store holding up to size tasks.
func NewTaskStore(size int) *TaskStore {
	if size < 1 {
		size = DefaultMaxTasks
	}
	cache, err := lru.New[string, *Task](size)
	if err != nil {
		// lru.New only fails for non-positive sizes.
		panic(err)
	}
	return &TaskStore{cache: cache}
}

// Get returns a copy of the task with the given id.
func (s *TaskStore) Get(id string) (*Task, bool) {
	t, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Put stores a copy of t.
func (s *TaskStore) Put(t *Task) {
	s.cache.Add(t.ID, t.Clone())
}

// Len returns the number of stored tasks.
func (s *TaskStore) Len() int {
	return s.cache.Len()
}
