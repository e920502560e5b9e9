package policy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"coverledger/internal/ledger/models"
	"coverledger/pkg/sentinel"
)

type PolicyStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *PolicyStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestPolicyStoreSuite(t *testing.T) {
	suite.Run(t, new(PolicyStoreSuite))
}

func (s *PolicyStoreSuite) newPolicy(owner string) *models.Policy {
	return &models.Policy{
		Owner:       owner,
		Coverage:    1000,
		Premium:     50,
		StartHeight: 10,
		EndHeight:   110,
		Active:      true,
		CreatedAt:   time.Now(),
	}
}

// TestCreationAndLookups verifies the store assigns ids and retrieves records.
func (s *PolicyStoreSuite) TestCreationAndLookups() {
	s.Run("assigns strictly increasing ids from 1", func() {
		id1, err := s.store.Create(s.ctx, s.newPolicy("alice"))
		s.Require().NoError(err)
		id2, err := s.store.Create(s.ctx, s.newPolicy("bob"))
		s.Require().NoError(err)

		s.Equal(uint64(1), id1)
		s.Equal(uint64(2), id2)
	})

	s.Run("finds policy by id regardless of owner", func() {
		id, err := s.store.Create(s.ctx, s.newPolicy("alice"))
		s.Require().NoError(err)

		found, err := s.store.FindByID(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("alice", found.Owner)
		s.Equal(id, found.ID)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(s.ctx, 999)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestIsolation verifies callers cannot mutate stored records through
// returned pointers.
func (s *PolicyStoreSuite) TestIsolation() {
	id, err := s.store.Create(s.ctx, s.newPolicy("alice"))
	s.Require().NoError(err)

	found, err := s.store.FindByID(s.ctx, id)
	s.Require().NoError(err)
	found.Coverage = 1

	again, err := s.store.FindByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(uint64(1000), again.Coverage)
}

// TestCreateDoesNotMutateInput verifies the caller's record keeps a zero ID.
func (s *PolicyStoreSuite) TestCreateDoesNotMutateInput() {
	p := s.newPolicy("alice")
	_, err := s.store.Create(s.ctx, p)
	s.Require().NoError(err)
	s.Zero(p.ID)
}
