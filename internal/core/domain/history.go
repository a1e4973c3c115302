package domain

import "time"

// HistoryEntry is one question/answer exchange in a session.
// Entries are appended only and never mutated; the whole history is
// discarded when the session ends.
type HistoryEntry struct {
	// Query is the user's question.
	Query string

	// Answer is the generated answer.
	Answer string

	// AskedAt is when the exchange completed.
	AskedAt time.Time
}
