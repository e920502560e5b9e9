// Package service implements the ledger state machine: guarded transitions
// over policies, claims, and the ledger-wide scalars.
//
// Every transition is serialized behind a single mutex so each operation
// observes one consistent snapshot and either commits all its writes or none.
// The external transfer runs before any record write, so a settlement failure
// aborts the operation with no observable state change.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"coverledger/internal/chain"
	ledgermetrics "coverledger/internal/ledger/metrics"
	"coverledger/internal/ledger/models"
	dErrors "coverledger/pkg/domain-errors"
	"coverledger/pkg/requestcontext"
	"coverledger/pkg/sentinel"
)

// Service orchestrates policy and claim lifecycles.
type Service struct {
	// mu serializes all transitions. The source system assumed an
	// execution environment that runs one operation to completion before
	// the next; this lock reproduces that model.
	mu sync.Mutex

	policies PolicyStore
	claims   ClaimStore
	state    StateStore
	bank     Transferrer
	clock    chain.Clock

	logger  *slog.Logger
	metrics *ledgermetrics.Metrics
	tracer  trace.Tracer
}

type serviceConfig struct {
	logger  *slog.Logger
	metrics *ledgermetrics.Metrics
}

// Option customizes optional service dependencies.
type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

func WithMetrics(m *ledgermetrics.Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

func New(policies PolicyStore, claims ClaimStore, state StateStore, bank Transferrer, clock chain.Clock, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		policies: policies,
		claims:   claims,
		state:    state,
		bank:     bank,
		clock:    clock,
		logger:   logger,
		metrics:  cfg.metrics,
		tracer:   otel.Tracer("coverledger/ledger"),
	}
}

// SetAdministrator replaces the administrator identity. Only the current
// administrator may call it.
func (s *Service) SetAdministrator(ctx context.Context, newAdministrator string) error {
	caller, err := callerID(ctx)
	if err != nil {
		return err
	}
	if newAdministrator == "" {
		return dErrors.New(dErrors.CodeBadRequest, "administrator identity is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.state.Execute(ctx,
		func(st *models.LedgerState) error {
			if st.Administrator != caller {
				return dErrors.New(dErrors.CodeNotAuthorized, "caller is not the administrator")
			}
			return nil
		},
		func(st *models.LedgerState) {
			st.Administrator = newAdministrator
		},
	)
	if err != nil {
		return wrapStoreErr(err)
	}

	s.logger.InfoContext(ctx, "administrator changed",
		"previous", caller,
		"administrator", newAdministrator,
	)
	return nil
}

// CreatePolicy validates the inputs, stamps the validity window from the
// current chain height, and stores the policy owned by the caller.
func (s *Service) CreatePolicy(ctx context.Context, coverage, premium, duration uint64) (*models.Policy, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.CreatePolicy")
	defer span.End()
	start := time.Now()

	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	height := s.clock.Height(ctx)
	p, err := models.NewPolicy(caller, coverage, premium, duration, height, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	id, err := s.policies.Create(ctx, p)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodePolicyExists, "policy id already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create policy")
	}
	p.ID = id

	s.logger.InfoContext(ctx, "policy created",
		"policy_id", p.ID,
		"owner", p.Owner,
		"coverage", p.Coverage,
		"premium", p.Premium,
		"start_height", p.StartHeight,
		"end_height", p.EndHeight,
	)
	if s.metrics != nil {
		s.metrics.PoliciesCreated.Inc()
		s.metrics.ObserveCreatePolicy(start)
	}
	return p, nil
}

// PayPremium moves the policy's premium from the caller to the administrator
// and grows the premiums accumulator. The accumulator only moves after the
// transfer succeeded.
//
// Payment is intentionally not recorded on the policy: a policy that never
// received a premium stays usable inside its window. This mirrors the source
// system and is a known limitation, not an oversight.
func (s *Service) PayPremium(ctx context.Context, policyID uint64) error {
	ctx, span := s.tracer.Start(ctx, "ledger.PayPremium")
	defer span.End()

	caller, err := callerID(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.resolveOwnedPolicy(ctx, policyID, caller)
	if err != nil {
		return err
	}
	if !p.UsableAt(s.clock.Height(ctx)) {
		return dErrors.New(dErrors.CodePolicyExpired, "policy is expired or inactive")
	}

	st, err := s.state.Get(ctx)
	if err != nil {
		return wrapStoreErr(err)
	}
	if err := s.bank.Transfer(ctx, p.Premium, caller, st.Administrator); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTransferFailed, "premium transfer failed")
	}

	_, err = s.state.Execute(ctx,
		func(*models.LedgerState) error { return nil },
		func(st *models.LedgerState) { st.PremiumsCollected += p.Premium },
	)
	if err != nil {
		return wrapStoreErr(err)
	}

	s.logger.InfoContext(ctx, "premium paid",
		"policy_id", p.ID,
		"owner", caller,
		"amount", p.Premium,
	)
	if s.metrics != nil {
		s.metrics.PremiumsPaid.Inc()
		s.metrics.PremiumVolume.Add(float64(p.Premium))
	}
	return nil
}

// SubmitClaim files a PENDING claim against a policy owned by the caller.
func (s *Service) SubmitClaim(ctx context.Context, policyID, amount uint64, description string) (*models.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.SubmitClaim")
	defer span.End()

	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.resolveOwnedPolicy(ctx, policyID, caller)
	if err != nil {
		return nil, err
	}
	if !p.UsableAt(s.clock.Height(ctx)) {
		return nil, dErrors.New(dErrors.CodePolicyExpired, "policy is expired or inactive")
	}

	c, err := models.NewClaim(p.ID, amount, description, p.Coverage, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	id, err := s.claims.Create(ctx, c)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create claim")
	}
	c.ID = id

	s.logger.InfoContext(ctx, "claim submitted",
		"claim_id", c.ID,
		"policy_id", p.ID,
		"owner", caller,
		"amount", c.Amount,
	)
	if s.metrics != nil {
		s.metrics.ClaimsSubmitted.Inc()
	}
	return c, nil
}

// ProcessClaim records the administrator's terminal decision on a claim.
// Approval pays the claim amount from the administrator to the policy owner
// before any record changes; a failed payout aborts the operation entirely.
// A decision can be recorded exactly once.
//
// The policy owner is resolved by policy id alone, not through the caller's
// own records. The source system folded the owner into the storage key, which
// made this lookup fail for any administrator who was not also the
// policyholder; storing the owner as a field fixes that while the owner
// checks in the caller-facing operations keep the original access control.
func (s *Service) ProcessClaim(ctx context.Context, claimID, policyID uint64, approved bool) (*models.Claim, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.ProcessClaim")
	defer span.End()
	start := time.Now()

	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.state.Get(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	if caller != st.Administrator {
		return nil, dErrors.New(dErrors.CodeNotAuthorized, "caller is not the administrator")
	}

	c, err := s.claims.FindByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidClaim, "claim not found")
		}
		return nil, wrapStoreErr(err)
	}
	if c.PolicyID != policyID {
		return nil, dErrors.New(dErrors.CodeInvalidClaim, "claim does not belong to policy")
	}
	if err := c.CanDecide(); err != nil {
		return nil, err
	}

	p, err := s.policies.FindByID(ctx, c.PolicyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodePolicyNotFound, "policy not found")
		}
		return nil, wrapStoreErr(err)
	}

	if approved {
		if err := s.bank.Transfer(ctx, c.Amount, st.Administrator, p.Owner); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeTransferFailed, "claim payout failed")
		}
	}

	now := requestcontext.Now(ctx)
	updated, err := s.claims.Execute(ctx, claimID,
		func(c *models.Claim) error { return c.CanDecide() },
		func(c *models.Claim) { c.ApplyDecision(approved, now) },
	)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	if approved {
		_, err = s.state.Execute(ctx,
			func(*models.LedgerState) error { return nil },
			func(st *models.LedgerState) { st.ClaimsPaid += c.Amount },
		)
		if err != nil {
			return nil, wrapStoreErr(err)
		}
	}

	s.logger.InfoContext(ctx, "claim processed",
		"claim_id", updated.ID,
		"policy_id", updated.PolicyID,
		"status", updated.Status.String(),
		"amount", updated.Amount,
		"payee", p.Owner,
	)
	if s.metrics != nil {
		if approved {
			s.metrics.ClaimsApproved.Inc()
			s.metrics.PayoutVolume.Add(float64(updated.Amount))
		} else {
			s.metrics.ClaimsRejected.Inc()
		}
		s.metrics.ObserveProcessClaim(start)
	}
	return updated, nil
}

// GetPolicy returns the caller's policy at that id, or nil when it does not
// exist or belongs to someone else. Absence is not an error here.
func (s *Service) GetPolicy(ctx context.Context, policyID uint64) (*models.Policy, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.policies.FindByID(ctx, policyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, wrapStoreErr(err)
	}
	if p.Owner != caller {
		return nil, nil
	}
	return p, nil
}

// GetClaim returns the claim at that id, or nil when absent. Claims are
// looked up by id alone.
func (s *Service) GetClaim(ctx context.Context, claimID uint64) (*models.Claim, error) {
	c, err := s.claims.FindByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, wrapStoreErr(err)
	}
	return c, nil
}

// GetPolicyOwner returns the owner identity of the caller's policy at that
// id. A policy owned by someone else reads as not found, matching the
// caller-scoped semantics of the original accessor.
func (s *Service) GetPolicyOwner(ctx context.Context, policyID uint64) (string, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	p, err := s.policies.FindByID(ctx, policyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodePolicyNotFound, "policy not found")
		}
		return "", wrapStoreErr(err)
	}
	if p.Owner != caller {
		return "", dErrors.New(dErrors.CodePolicyNotFound, "policy not found")
	}
	return p.Owner, nil
}

// IsPolicyActive reports whether the policy is usable at the current height.
// Lookup is by id alone.
func (s *Service) IsPolicyActive(ctx context.Context, policyID uint64) (bool, error) {
	p, err := s.policies.FindByID(ctx, policyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, dErrors.New(dErrors.CodePolicyNotFound, "policy not found")
		}
		return false, wrapStoreErr(err)
	}
	return p.UsableAt(s.clock.Height(ctx)), nil
}

// Totals returns the settlement accumulators.
func (s *Service) Totals(ctx context.Context) (*models.LedgerState, error) {
	st, err := s.state.Get(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return st, nil
}

// resolveOwnedPolicy finds the policy and enforces that the caller owns it.
// A policy owned by someone else reads as not found so callers cannot probe
// for other parties' policy ids.
func (s *Service) resolveOwnedPolicy(ctx context.Context, policyID uint64, caller string) (*models.Policy, error) {
	p, err := s.policies.FindByID(ctx, policyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodePolicyNotFound, "policy not found")
		}
		return nil, wrapStoreErr(err)
	}
	if p.Owner != caller {
		return nil, dErrors.New(dErrors.CodePolicyNotFound, "policy not found")
	}
	return p, nil
}

func callerID(ctx context.Context) (string, error) {
	caller := requestcontext.CallerID(ctx)
	if caller == "" {
		return "", dErrors.New(dErrors.CodeNotAuthorized, "no caller identity")
	}
	return caller, nil
}

func wrapStoreErr(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "store failure")
}
