package services

import (
	"sync"
	"time"

	"github.com/docsage-labs/docsage-cli/internal/core/domain"
)

// SessionHistory records a session's question/answer exchanges in memory.
// It is append-only and discarded when the process exits; nothing is
// persisted.
type SessionHistory struct {
	mu      sync.RWMutex
	entries []domain.HistoryEntry
}

// NewSessionHistory creates an empty session history.
func NewSessionHistory() *SessionHistory {
	return &SessionHistory{}
}

// Append records a completed exchange.
func (h *SessionHistory) Append(query, answer string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, domain.HistoryEntry{
		Query:   query,
		Answer:  answer,
		AskedAt: time.Now().UTC(),
	})
}

// Entries returns a copy of all exchanges, oldest first.
func (h *SessionHistory) Entries() []domain.HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of recorded exchanges.
func (h *SessionHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
