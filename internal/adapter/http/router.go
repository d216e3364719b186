package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gestion/internal/adapter/http/handler"
	"github.com/iho/gestion/internal/adapter/http/middleware"
	"github.com/iho/gestion/internal/infrastructure/metrics"
	"github.com/iho/gestion/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PartyHandler     *handler.PartyHandler
	InvoiceHandler   *handler.InvoiceHandler
	PurchaseHandler  *handler.PurchaseHandler
	PaymentHandler   *handler.PaymentHandler
	StatementHandler *handler.StatementHandler
	TaxHandler       *handler.TaxHandler
	HealthHandler    *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger, "/health", "/ready", "/metrics").Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			if cfg.Metrics != nil {
				idempotency.OnReplay(cfg.Metrics.IdempotentReplays.Inc)
			}
			r.Use(idempotency.Wrap)
		}

		r.Route("/clients", func(r chi.Router) {
			r.Post("/", cfg.PartyHandler.CreateClient)
			r.Get("/", cfg.PartyHandler.ListClients)
			r.Get("/{id}", cfg.PartyHandler.GetClient)
			r.Get("/{id}/statement", cfg.StatementHandler.Client)
			r.Get("/{id}/invoices", cfg.InvoiceHandler.ListByClient)
			r.Get("/{id}/payments", cfg.PaymentHandler.ListClientPayments)
			r.Get("/{id}/adjustments", cfg.PaymentHandler.ListAdjustments)
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Post("/", cfg.PartyHandler.CreateSupplier)
			r.Get("/", cfg.PartyHandler.ListSuppliers)
			r.Get("/{id}", cfg.PartyHandler.GetSupplier)
			r.Get("/{id}/statement", cfg.StatementHandler.Supplier)
			r.Get("/{id}/purchases", cfg.PurchaseHandler.ListBySupplier)
			r.Get("/{id}/payments", cfg.PaymentHandler.ListSupplierPayments)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Post("/", cfg.InvoiceHandler.Create)
			r.Get("/{id}", cfg.InvoiceHandler.Get)
			r.Post("/{id}/issue", cfg.InvoiceHandler.Issue)
			r.Post("/{id}/void", cfg.InvoiceHandler.Void)
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", cfg.PurchaseHandler.Record)
			r.Post("/{id}/void", cfg.PurchaseHandler.Void)
		})

		r.Post("/payments", cfg.PaymentHandler.RecordPayment)
		r.Post("/adjustments", cfg.PaymentHandler.RecordAdjustment)

		r.Route("/tax", func(r chi.Router) {
			r.Post("/totals", cfg.TaxHandler.Totals)
			r.Post("/split", cfg.TaxHandler.Split)
		})
	})

	return r
}
