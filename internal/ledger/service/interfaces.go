package service

import (
	"context"

	"coverledger/internal/ledger/models"
)

// PolicyStore persists policies indexed by id alone; the owner is a field on
// the record. Create assigns a strictly increasing id inside the same atomic
// unit as the insert and returns it.
type PolicyStore interface {
	Create(ctx context.Context, p *models.Policy) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*models.Policy, error)
}

// ClaimStore persists claims. Execute runs validate and apply while holding
// the record lock, so a decision can be recorded exactly once even under
// races.
type ClaimStore interface {
	Create(ctx context.Context, c *models.Claim) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*models.Claim, error)
	Execute(ctx context.Context, id uint64, validate func(*models.Claim) error, apply func(*models.Claim)) (*models.Claim, error)
}

// StateStore persists the single ledger-state record.
type StateStore interface {
	Get(ctx context.Context) (*models.LedgerState, error)
	Execute(ctx context.Context, validate func(*models.LedgerState) error, apply func(*models.LedgerState)) (*models.LedgerState, error)
}

// Transferrer is the external settlement rail. A transfer either fully
// applies or fails with no balance change.
type Transferrer interface {
	Transfer(ctx context.Context, amount uint64, from, to string) error
}
