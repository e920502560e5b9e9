package models

// Request and response payloads for the HTTP surface. Kept beside the domain
// models so handler tests and clients share one vocabulary.

type SetAdministratorRequest struct {
	Administrator string `json:"administrator"`
}

type CreatePolicyRequest struct {
	CoverageAmount uint64 `json:"coverage_amount"`
	PremiumAmount  uint64 `json:"premium_amount"`
	Duration       uint64 `json:"duration"`
}

type CreatePolicyResponse struct {
	PolicyID uint64 `json:"policy_id"`
}

type SubmitClaimRequest struct {
	Amount      uint64 `json:"amount"`
	Description string `json:"description"`
}

type SubmitClaimResponse struct {
	ClaimID uint64 `json:"claim_id"`
}

type ProcessClaimRequest struct {
	PolicyID uint64 `json:"policy_id"`
	Approved bool   `json:"approved"`
}

type PolicyOwnerResponse struct {
	PolicyID uint64 `json:"policy_id"`
	Owner    string `json:"owner"`
}

type PolicyActiveResponse struct {
	PolicyID uint64 `json:"policy_id"`
	Active   bool   `json:"active"`
}

type TotalsResponse struct {
	PremiumsCollected uint64 `json:"premiums_collected"`
	ClaimsPaid        uint64 `json:"claims_paid"`
}

type AdvanceChainRequest struct {
	Ticks uint64 `json:"ticks"`
}

type AdvanceChainResponse struct {
	Height uint64 `json:"height"`
}
