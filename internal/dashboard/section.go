// Package dashboard owns the per-section view-model state the
// presentation layer reads: one single-writer slot per dashboard
// area, loaded concurrently and refreshed independently.
package dashboard

import "sync"

// State is a point-in-time snapshot of one section's slot.
type State[T any] struct {
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
	Loading bool   `json:"loading"`
}

// Section is the state slot for one dashboard area. Fetch sequences
// are tagged with a monotonically increasing ticket; only the most
// recently issued ticket may complete, so a stale in-flight fetch can
// never overwrite a fresher result. In-flight fetches are not
// cancelled, only ignored on completion.
type Section[T any] struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
	data    T
	err     error
}

// Begin marks the start of a fetch sequence and returns its ticket.
// Any earlier in-flight sequence is superseded immediately.
func (s *Section[T]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Complete records the outcome of the fetch identified by ticket.
// Superseded tickets are dropped; the return reports whether the
// result was applied.
func (s *Section[T]) Complete(ticket uint64, data T, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.issued {
		return false
	}
	s.applied = ticket
	s.data = data
	s.err = err
	return true
}

// Snapshot returns the section's current state. Loading is true while
// the latest issued ticket has not completed.
func (s *Section[T]) Snapshot() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State[T]{
		Data:    s.data,
		Loading: s.issued > s.applied,
	}
	if s.err != nil {
		st.Error = s.err.Error()
	}
	return st
}

// Err returns the error recorded by the last applied completion.
func (s *Section[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
