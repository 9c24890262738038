// Package store holds the in-memory expense log. Records only
// accumulate: there is no update or delete, and a restart begins from an
// empty log.
package store

import (
	"sync"

	"spendlog/internal/core"
)

// Store is an append-only collection of expenses, safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	items []core.Expense
}

func New() *Store {
	return &Store{}
}

// Append adds the expense to the log and returns its 1-based sequence
// number. Validation happens at intake; the store takes what it is given.
func (s *Store) Append(e core.Expense) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return len(s.items)
}

// All returns a copy of the log in insertion order. Mutating the result
// does not touch the store.
func (s *Store) All() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.items...)
}

// Len reports how many expenses have been recorded.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
