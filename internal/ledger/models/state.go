package models

// LedgerState holds the ledger-wide scalars: the administrator identity and
// the two monotonically non-decreasing settlement accumulators.
//
// Invariants:
//   - Administrator is replaced only by the current administrator
//   - PremiumsCollected and ClaimsPaid only grow, and only after the
//     corresponding transfer succeeded
type LedgerState struct {
	Administrator     string `json:"administrator"`
	PremiumsCollected uint64 `json:"premiums_collected"`
	ClaimsPaid        uint64 `json:"claims_paid"`
}
