package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/adapter/http/handler"
	"github.com/iho/gobank/internal/adapter/http/middleware"
	"github.com/iho/gobank/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BalanceHandler     *handler.BalanceHandler
	TransactionHandler *handler.TransactionHandler
	TransferHandler    *handler.TransferHandler
	ProfileHandler     *handler.ProfileHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	RateLimiter        *middleware.RateLimiter
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API v1: every endpoint requires a caller identity
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity)

		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/accounts/{id}", func(r chi.Router) {
			r.Get("/balance", cfg.BalanceHandler.Get)
			r.Get("/transactions", cfg.TransactionHandler.List)
		})

		r.Post("/transfers", cfg.TransferHandler.Create)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", cfg.ProfileHandler.Get)
			r.Put("/", cfg.ProfileHandler.Update)
		})
	})

	return r
}
