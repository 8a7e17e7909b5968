// Package history provides the conversation buffer the agent loop appends
// to while it runs. It copies on read and write so callers never share
// slice backing arrays with the loop.
package history

import (
	"sync"

	ai "github.com/agentkit-go/agentkit"
)

// History is a concurrency-safe, append-only conversation transcript.
type History struct {
	mu       sync.RWMutex
	messages []ai.Message
}

// New creates an empty history.
func New() *History {
	return &History{}
}

// NewFrom creates a history seeded with a copy of the given messages.
func NewFrom(messages []ai.Message) *History {
	h := &History{messages: make([]ai.Message, len(messages))}
	copy(h.messages, messages)
	return h
}

// Append adds messages to the end of the transcript.
func (h *History) Append(messages ...ai.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, messages...)
}

// Messages returns a copy of the transcript.
func (h *History) Messages() []ai.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]ai.Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of messages in the transcript.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Last returns the most recent message, or false when empty.
func (h *History) Last() (ai.Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.messages) == 0 {
		return ai.Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}
