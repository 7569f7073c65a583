package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/paymaster/internal/adapter/http/handler"
	"github.com/iho/paymaster/internal/adapter/http/middleware"
	"github.com/iho/paymaster/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	Logger           zerolog.Logger
	AccountHandler   *handler.AccountHandler
	BalanceHandler   *handler.BalanceHandler
	TransferHandler  *handler.TransferHandler
	HistoryHandler   *handler.HistoryHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Accounts
		r.Post("/account/create/user_id/{user_id}", cfg.AccountHandler.Create)
		r.Delete("/account/delete/user_id/{user_id}", cfg.AccountHandler.Delete)

		// Balance
		r.Post("/balance/change", cfg.BalanceHandler.Change)
		r.Get("/balance/get/user_id/{user_id}", cfg.BalanceHandler.Get)

		// Transactions
		r.Post("/transactions/transfer", cfg.TransferHandler.Create)
		r.Get("/transactions/history/user_id/{user_id}", cfg.HistoryHandler.List)
	})

	return r
}
