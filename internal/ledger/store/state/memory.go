package state

import (
	"context"
	"sync"

	"coverledger/internal/ledger/models"
)

// InMemory holds the single ledger-state record behind a mutex.
type InMemory struct {
	mu    sync.Mutex
	state models.LedgerState
}

// NewInMemory seeds the record with the bootstrap administrator and zeroed
// accumulators.
func NewInMemory(administrator string) *InMemory {
	return &InMemory{state: models.LedgerState{Administrator: administrator}}
}

// Get returns a copy of the current ledger state.
func (s *InMemory) Get(_ context.Context) (*models.LedgerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	return &st, nil
}

// Execute atomically validates and mutates the ledger state while holding
// the store lock. The validate error aborts with the record untouched.
// Returns a copy of the updated state.
func (s *InMemory) Execute(_ context.Context, validate func(*models.LedgerState) error, apply func(*models.LedgerState)) (*models.LedgerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validate(&s.state); err != nil {
		return nil, err
	}
	apply(&s.state)
	st := s.state
	return &st, nil
}
