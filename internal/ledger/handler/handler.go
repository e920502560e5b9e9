package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"coverledger/internal/chain"
	"coverledger/internal/ledger/models"
	"coverledger/internal/platform/middleware"
	"coverledger/internal/transport/http/shared"
	dErrors "coverledger/pkg/domain-errors"
	"coverledger/pkg/requestcontext"
)

// Service defines the interface for ledger operations.
type Service interface {
	SetAdministrator(ctx context.Context, newAdministrator string) error
	CreatePolicy(ctx context.Context, coverage, premium, duration uint64) (*models.Policy, error)
	PayPremium(ctx context.Context, policyID uint64) error
	SubmitClaim(ctx context.Context, policyID, amount uint64, description string) (*models.Claim, error)
	ProcessClaim(ctx context.Context, claimID, policyID uint64, approved bool) (*models.Claim, error)
	GetPolicy(ctx context.Context, policyID uint64) (*models.Policy, error)
	GetClaim(ctx context.Context, claimID uint64) (*models.Claim, error)
	GetPolicyOwner(ctx context.Context, policyID uint64) (string, error)
	IsPolicyActive(ctx context.Context, policyID uint64) (bool, error)
	Totals(ctx context.Context) (*models.LedgerState, error)
}

// Handler handles ledger endpoints.
type Handler struct {
	logger       *slog.Logger
	ledger       Service
	jwtValidator middleware.JWTValidator
	// clock, when set, enables the demo endpoint that advances the height.
	clock *chain.MemoryClock
}

// New creates a ledger Handler.
func New(ledger Service, logger *slog.Logger, jwtValidator middleware.JWTValidator, clock *chain.MemoryClock) *Handler {
	return &Handler{
		logger:       logger,
		ledger:       ledger,
		jwtValidator: jwtValidator,
		clock:        clock,
	}
}

// Register registers the ledger routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	ledgerRouter := chi.NewRouter()
	ledgerRouter.Use(middleware.Recovery(h.logger))
	ledgerRouter.Use(middleware.RequestID)
	ledgerRouter.Use(middleware.RequestTime)
	ledgerRouter.Use(middleware.Logger(h.logger))
	ledgerRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	ledgerRouter.Post("/admin/administrator", h.handleSetAdministrator)
	ledgerRouter.Post("/policies", h.handleCreatePolicy)
	ledgerRouter.Get("/policies/{policyID}", h.handleGetPolicy)
	ledgerRouter.Get("/policies/{policyID}/owner", h.handleGetPolicyOwner)
	ledgerRouter.Get("/policies/{policyID}/active", h.handleIsPolicyActive)
	ledgerRouter.Post("/policies/{policyID}/premium", h.handlePayPremium)
	ledgerRouter.Post("/policies/{policyID}/claims", h.handleSubmitClaim)
	ledgerRouter.Get("/claims/{claimID}", h.handleGetClaim)
	ledgerRouter.Post("/claims/{claimID}/decision", h.handleProcessClaim)
	ledgerRouter.Get("/ledger/totals", h.handleTotals)
	if h.clock != nil {
		ledgerRouter.Post("/chain/advance", h.handleAdvanceChain)
	}

	r.Mount("/", ledgerRouter)
}

func (h *Handler) handleSetAdministrator(w http.ResponseWriter, r *http.Request) {
	var req models.SetAdministratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.ledger.SetAdministrator(r.Context(), req.Administrator); err != nil {
		h.logError(r, "set administrator failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	p, err := h.ledger.CreatePolicy(r.Context(), req.CoverageAmount, req.PremiumAmount, req.Duration)
	if err != nil {
		h.logError(r, "create policy failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, models.CreatePolicyResponse{PolicyID: p.ID})
}

func (h *Handler) handlePayPremium(w http.ResponseWriter, r *http.Request) {
	policyID, ok := pathID(w, r, "policyID")
	if !ok {
		return
	}

	if err := h.ledger.PayPremium(r.Context(), policyID); err != nil {
		h.logError(r, "pay premium failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSubmitClaim(w http.ResponseWriter, r *http.Request) {
	policyID, ok := pathID(w, r, "policyID")
	if !ok {
		return
	}
	var req models.SubmitClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	c, err := h.ledger.SubmitClaim(r.Context(), policyID, req.Amount, req.Description)
	if err != nil {
		h.logError(r, "submit claim failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, models.SubmitClaimResponse{ClaimID: c.ID})
}

func (h *Handler) handleProcessClaim(w http.ResponseWriter, r *http.Request) {
	claimID, ok := pathID(w, r, "claimID")
	if !ok {
		return
	}
	var req models.ProcessClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	c, err := h.ledger.ProcessClaim(r.Context(), claimID, req.PolicyID, req.Approved)
	if err != nil {
		h.logError(r, "process claim failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	policyID, ok := pathID(w, r, "policyID")
	if !ok {
		return
	}

	p, err := h.ledger.GetPolicy(r.Context(), policyID)
	if err != nil {
		h.logError(r, "get policy failed", err)
		shared.WriteError(w, err)
		return
	}
	if p == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodePolicyNotFound, "policy not found"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	claimID, ok := pathID(w, r, "claimID")
	if !ok {
		return
	}

	c, err := h.ledger.GetClaim(r.Context(), claimID)
	if err != nil {
		h.logError(r, "get claim failed", err)
		shared.WriteError(w, err)
		return
	}
	if c == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidClaim, "claim not found"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleGetPolicyOwner(w http.ResponseWriter, r *http.Request) {
	policyID, ok := pathID(w, r, "policyID")
	if !ok {
		return
	}

	owner, err := h.ledger.GetPolicyOwner(r.Context(), policyID)
	if err != nil {
		h.logError(r, "get policy owner failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, models.PolicyOwnerResponse{PolicyID: policyID, Owner: owner})
}

func (h *Handler) handleIsPolicyActive(w http.ResponseWriter, r *http.Request) {
	policyID, ok := pathID(w, r, "policyID")
	if !ok {
		return
	}

	active, err := h.ledger.IsPolicyActive(r.Context(), policyID)
	if err != nil {
		h.logError(r, "policy active check failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, models.PolicyActiveResponse{PolicyID: policyID, Active: active})
}

func (h *Handler) handleTotals(w http.ResponseWriter, r *http.Request) {
	st, err := h.ledger.Totals(r.Context())
	if err != nil {
		h.logError(r, "totals failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, models.TotalsResponse{
		PremiumsCollected: st.PremiumsCollected,
		ClaimsPaid:        st.ClaimsPaid,
	})
}

// handleAdvanceChain moves the demo clock forward. Only wired when the server
// owns an in-process clock; a deployment tracking a real chain has no such
// endpoint.
func (h *Handler) handleAdvanceChain(w http.ResponseWriter, r *http.Request) {
	var req models.AdvanceChainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Ticks == 0 {
		req.Ticks = 1
	}
	height := h.clock.Advance(req.Ticks)
	shared.WriteJSON(w, http.StatusOK, models.AdvanceChainResponse{Height: height})
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	ctx := r.Context()
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (uint64, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid "+param))
		return 0, false
	}
	return id, true
}
