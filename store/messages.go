package store

import (
	"sync"

	ai "github.com/spetersoncode/scholar"
)

// MessageStore is an ordered, append-only message list. Reads return copies.
type MessageStore struct {
	mu       sync.RWMutex
	messages []ai.Message
}

// NewMessageStore creates an empty MessageStore.
func NewMessageStore() *MessageStore {
	return &MessageStore{messages: make([]ai.Message, 0)}
}

// Messages returns a copy of all messages.
func (m *MessageStore) Messages() []ai.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]ai.Message, len(m.messages))
	copy(result, m.messages)
	return result
}

// Append adds messages in order.
func (m *MessageStore) Append(msgs ...ai.Message) {
	if len(msgs) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msgs...)
}

// Len returns the number of messages.
func (m *MessageStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}
