// Command server runs the coverledger HTTP service: the policy/claim ledger
// behind a chi router, with either in-memory or Postgres stores.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"coverledger/internal/bank"
	"coverledger/internal/chain"
	"coverledger/internal/ledger"
	ledgermetrics "coverledger/internal/ledger/metrics"
	"coverledger/internal/ledger/service"
	claimstore "coverledger/internal/ledger/store/claim"
	policystore "coverledger/internal/ledger/store/policy"
	statestore "coverledger/internal/ledger/store/state"
	"coverledger/internal/platform/config"
	"coverledger/internal/platform/httpserver"
	"coverledger/internal/platform/logger"
	"coverledger/internal/platform/middleware"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		policies service.PolicyStore
		claims   service.ClaimStore
		state    service.StateStore
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()

		stateStore := statestore.NewPostgres(db)
		if err := stateStore.Ensure(ctx, cfg.Administrator); err != nil {
			log.Error("seed ledger state", "error", err.Error())
			os.Exit(1)
		}
		policies = policystore.NewPostgres(db)
		claims = claimstore.NewPostgres(db)
		state = stateStore
		log.Info("using postgres stores")
	} else {
		policies = policystore.NewInMemory()
		claims = claimstore.NewInMemory()
		state = statestore.NewInMemory(cfg.Administrator)
		log.Info("using in-memory stores")
	}

	// The settlement rail and chain clock are external collaborators in
	// production; in-process stand-ins keep the server self-contained.
	rail := bank.NewInMemory()
	rail.Deposit(cfg.Administrator, cfg.AdminFloat)
	clock := chain.NewMemoryClock(cfg.StartHeight)

	svc := ledger.NewService(policies, claims, state, rail, clock,
		service.WithLogger(log),
		service.WithMetrics(ledgermetrics.New()),
	)
	validator := middleware.NewHMACValidator(cfg.JWTSigningKey)

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	ledger.NewHandler(svc, log, validator, clock).Register(router)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting coverledger", "addr", cfg.Addr, "administrator", cfg.Administrator)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}
