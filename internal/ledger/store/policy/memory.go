package policy

import (
	"context"
	"sync"

	"coverledger/internal/ledger/models"
	"coverledger/pkg/sentinel"
)

// InMemory stores policies in a mutex-guarded map keyed by id alone; the
// owner lives on the record. IDs are assigned from a strictly increasing
// counter inside the same critical section as the insert, so an id is never
// reused even across racing creations.
type InMemory struct {
	mu       sync.RWMutex
	policies map[uint64]*models.Policy
	nextID   uint64
}

func NewInMemory() *InMemory {
	return &InMemory{
		policies: make(map[uint64]*models.Policy),
		nextID:   1,
	}
}

// Create assigns the next policy id and inserts the record, returning the id.
// Returns sentinel.ErrConflict if a record already occupies the assigned id;
// unreachable while ids come from the counter, but the guard stays.
func (s *InMemory) Create(_ context.Context, p *models.Policy) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	if _, exists := s.policies[id]; exists {
		return 0, sentinel.ErrConflict
	}

	stored := *p
	stored.ID = id
	s.policies[id] = &stored
	s.nextID++
	return id, nil
}

// FindByID returns a copy of the policy or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, id uint64) (*models.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.policies[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := *p
	return &found, nil
}
