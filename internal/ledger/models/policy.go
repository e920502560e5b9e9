package models

import (
	"time"

	dErrors "coverledger/pkg/domain-errors"
)

// Policy is an insurance contract record.
//
// Invariants:
//   - Coverage and Premium are strictly positive, fixed at creation
//   - EndHeight = StartHeight + duration, duration strictly positive
//   - Owner is the identity that created the policy, immutable
//   - Active is set true at creation; no operation deactivates a policy
//
// # Ownership
//
// Owner is stored as a plain field and records are indexed by ID alone.
// Access control happens in the service layer by comparing the stored owner
// against the caller identity, so claim processing can resolve a policy's
// owner without being that owner itself. Caller-facing accessors still treat
// "exists but owned by someone else" as not found.
//
// A policy is usable only while Active is true AND the chain height has not
// passed EndHeight; see UsableAt. Premium payment is deliberately not
// tracked on the record: a policy that never received a premium stays usable
// inside its window.
type Policy struct {
	ID          uint64    `json:"id"`
	Owner       string    `json:"owner"`
	Coverage    uint64    `json:"coverage_amount"`
	Premium     uint64    `json:"premium_amount"`
	StartHeight uint64    `json:"start_height"`
	EndHeight   uint64    `json:"end_height"`
	Active      bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Duration returns the length of the validity window in clock ticks.
func (p *Policy) Duration() uint64 {
	return p.EndHeight - p.StartHeight
}

// UsableAt reports whether the policy can accept premiums and claims at the
// given chain height. The expiry comparison is inclusive: the policy is still
// usable at exactly EndHeight.
func (p *Policy) UsableAt(height uint64) bool {
	return p.Active && height <= p.EndHeight
}

// NewPolicy validates creation inputs and builds the record. The ID is zero
// until the store assigns one.
//
// Errors: CodeInvalidCoverage, CodeInvalidPremium, or CodeInvalidDuration for
// the respective non-positive input; inputs are checked in that order.
func NewPolicy(owner string, coverage, premium, duration, height uint64, now time.Time) (*Policy, error) {
	if coverage == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidCoverage, "coverage amount must be positive")
	}
	if premium == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidPremium, "premium amount must be positive")
	}
	if duration == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidDuration, "duration must be positive")
	}
	return &Policy{
		Owner:       owner,
		Coverage:    coverage,
		Premium:     premium,
		StartHeight: height,
		EndHeight:   height + duration,
		Active:      true,
		CreatedAt:   now,
	}, nil
}
