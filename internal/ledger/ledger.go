package ledger

import (
	"log/slog"

	"coverledger/internal/chain"
	"coverledger/internal/ledger/handler"
	"coverledger/internal/ledger/service"
	"coverledger/internal/platform/middleware"
)

// Service exposes policy and claim lifecycle orchestration.
type Service = service.Service

// Handler wires HTTP endpoints to the ledger service.
type Handler = handler.Handler

// NewService constructs the ledger service with required dependencies.
func NewService(policies service.PolicyStore, claims service.ClaimStore, state service.StateStore, bank service.Transferrer, clock chain.Clock, opts ...service.Option) *Service {
	return service.New(policies, claims, state, bank, clock, opts...)
}

// NewHandler constructs an HTTP handler for the ledger routes.
func NewHandler(s *Service, logger *slog.Logger, validator middleware.JWTValidator, clock *chain.MemoryClock) *Handler {
	return handler.New(s, logger, validator, clock)
}
