package claim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"coverledger/internal/ledger/models"
	dErrors "coverledger/pkg/domain-errors"
	"coverledger/pkg/sentinel"
)

type ClaimStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *ClaimStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestClaimStoreSuite(t *testing.T) {
	suite.Run(t, new(ClaimStoreSuite))
}

func (s *ClaimStoreSuite) newClaim(policyID uint64) *models.Claim {
	now := time.Now()
	return &models.Claim{
		PolicyID:    policyID,
		Amount:      400,
		Description: "storm damage",
		Status:      models.ClaimStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TestCreationAndLookups verifies id assignment and retrieval.
func (s *ClaimStoreSuite) TestCreationAndLookups() {
	s.Run("assigns strictly increasing ids from 1", func() {
		id1, err := s.store.Create(s.ctx, s.newClaim(1))
		s.Require().NoError(err)
		id2, err := s.store.Create(s.ctx, s.newClaim(1))
		s.Require().NoError(err)

		s.Equal(uint64(1), id1)
		s.Equal(uint64(2), id2)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(s.ctx, 999)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestExecute verifies the atomic validate-then-mutate path.
func (s *ClaimStoreSuite) TestExecute() {
	s.Run("applies mutation and returns updated copy", func() {
		id, err := s.store.Create(s.ctx, s.newClaim(1))
		s.Require().NoError(err)

		decided := time.Now().Add(time.Minute)
		updated, err := s.store.Execute(s.ctx, id,
			func(c *models.Claim) error { return c.CanDecide() },
			func(c *models.Claim) { c.ApplyDecision(false, decided) },
		)
		s.Require().NoError(err)
		s.Equal(models.ClaimStatusRejected, updated.Status)
		s.True(updated.Processed)

		found, err := s.store.FindByID(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(models.ClaimStatusRejected, found.Status)
	})

	s.Run("validate failure leaves record untouched", func() {
		id, err := s.store.Create(s.ctx, s.newClaim(1))
		s.Require().NoError(err)

		_, err = s.store.Execute(s.ctx, id,
			func(c *models.Claim) error {
				return dErrors.New(dErrors.CodeClaimAlreadyProcessed, "claim already processed")
			},
			func(c *models.Claim) { c.ApplyDecision(true, time.Now()) },
		)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeClaimAlreadyProcessed))

		found, err := s.store.FindByID(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(models.ClaimStatusPending, found.Status)
		s.False(found.Processed)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.Execute(s.ctx, 999,
			func(c *models.Claim) error { return nil },
			func(c *models.Claim) {},
		)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
