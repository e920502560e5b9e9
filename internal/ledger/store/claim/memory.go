package claim

import (
	"context"
	"sync"

	"coverledger/internal/ledger/models"
	"coverledger/pkg/sentinel"
)

// InMemory stores claims in a mutex-guarded map keyed by claim id. IDs come
// from a strictly increasing counter incremented inside the insert's critical
// section.
type InMemory struct {
	mu     sync.RWMutex
	claims map[uint64]*models.Claim
	nextID uint64
}

func NewInMemory() *InMemory {
	return &InMemory{
		claims: make(map[uint64]*models.Claim),
		nextID: 1,
	}
}

// Create assigns the next claim id and inserts the record, returning the id.
func (s *InMemory) Create(_ context.Context, c *models.Claim) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	if _, exists := s.claims[id]; exists {
		return 0, sentinel.ErrConflict
	}

	stored := *c
	stored.ID = id
	s.claims[id] = &stored
	s.nextID++
	return id, nil
}

// FindByID returns a copy of the claim or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, id uint64) (*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.claims[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := *c
	return &found, nil
}

// Execute atomically validates and mutates a claim while holding the store
// lock, so no other writer can slip between the check and the update. The
// validate error aborts with the record untouched. Returns a copy of the
// updated claim.
func (s *InMemory) Execute(_ context.Context, id uint64, validate func(*models.Claim) error, apply func(*models.Claim)) (*models.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.claims[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	apply(c)
	updated := *c
	return &updated, nil
}
