package models

import (
	"time"

	dErrors "coverledger/pkg/domain-errors"
)

// MaxClaimDescriptionLen bounds claim description text.
const MaxClaimDescriptionLen = 256

// ClaimStatus enumerates the claim state machine:
// PENDING --approve--> APPROVED (terminal), PENDING --reject--> REJECTED
// (terminal). No transition leaves a terminal state.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "PENDING"
	ClaimStatusApproved ClaimStatus = "APPROVED"
	ClaimStatusRejected ClaimStatus = "REJECTED"
)

// validClaimStatuses is the single source of truth for valid statuses.
var validClaimStatuses = map[ClaimStatus]bool{
	ClaimStatusPending:  true,
	ClaimStatusApproved: true,
	ClaimStatusRejected: true,
}

// IsValid checks if the status is one of the supported enum values.
func (s ClaimStatus) IsValid() bool {
	return validClaimStatuses[s]
}

// Terminal reports whether the status admits no further transition.
func (s ClaimStatus) Terminal() bool {
	return s == ClaimStatusApproved || s == ClaimStatusRejected
}

// CanTransitionTo reports whether the state machine permits moving from s to
// target.
func (s ClaimStatus) CanTransitionTo(target ClaimStatus) bool {
	return s == ClaimStatusPending && target.Terminal()
}

func (s ClaimStatus) String() string {
	return string(s)
}

// Claim is a payout request against a policy.
//
// Invariants:
//   - Amount <= the referenced policy's Coverage, checked at submission
//   - Description is at most MaxClaimDescriptionLen characters
//   - Processed is true exactly when Status is terminal
//   - A claim is decided at most once and never deleted or re-opened
type Claim struct {
	ID          uint64      `json:"id"`
	PolicyID    uint64      `json:"policy_id"`
	Amount      uint64      `json:"amount"`
	Description string      `json:"description"`
	Status      ClaimStatus `json:"status"`
	Processed   bool        `json:"processed"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NewClaim validates submission inputs against the referenced policy and
// builds a PENDING record. The ID is zero until the store assigns one.
//
// Errors: CodeInvalidClaim when the amount exceeds coverage or the
// description is too long.
func NewClaim(policyID, amount uint64, description string, coverage uint64, now time.Time) (*Claim, error) {
	if amount > coverage {
		return nil, dErrors.New(dErrors.CodeInvalidClaim, "claim amount exceeds policy coverage")
	}
	if len(description) > MaxClaimDescriptionLen {
		return nil, dErrors.New(dErrors.CodeInvalidClaim, "description exceeds 256 characters")
	}
	return &Claim{
		PolicyID:    policyID,
		Amount:      amount,
		Description: description,
		Status:      ClaimStatusPending,
		Processed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CanDecide checks whether a decision may still be recorded.
// Use with ApplyDecision in Execute callbacks for proper separation of
// concerns.
func (c *Claim) CanDecide() error {
	if c.Processed {
		return dErrors.New(dErrors.CodeClaimAlreadyProcessed, "claim already processed")
	}
	return nil
}

// ApplyDecision records the terminal decision. Only Status, Processed and
// UpdatedAt change; amount, description and policy reference are preserved.
// Call CanDecide first to validate the transition.
func (c *Claim) ApplyDecision(approved bool, now time.Time) {
	if approved {
		c.Status = ClaimStatusApproved
	} else {
		c.Status = ClaimStatusRejected
	}
	c.Processed = true
	c.UpdatedAt = now
}
