package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/orderledger/internal/adapter/http/handler"
	"github.com/iho/orderledger/internal/adapter/http/middleware"
	"github.com/iho/orderledger/internal/infrastructure/metrics"
	"github.com/iho/orderledger/internal/usecase"
)

// DefaultOwnerHeader carries the caller identity when no Identity middleware
// is configured.
const DefaultOwnerHeader = "X-Owner-ID"

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EntryHandler       *handler.EntryHandler
	BulkHandler        *handler.BulkHandler
	InterchangeHandler *handler.InterchangeHandler
	AnalyticsHandler   *handler.AnalyticsHandler
	HealthHandler      *handler.HealthHandler

	// Identity resolves the owner of /api/v1 requests.
	Identity func(http.Handler) http.Handler

	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger

	MaintenanceMode    bool
	MaintenanceMessage string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	r.Use(middleware.Maintenance(cfg.MaintenanceMode, cfg.MaintenanceMessage))

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	identity := cfg.Identity
	if identity == nil {
		identity = middleware.HeaderIdentity(DefaultOwnerHeader)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(identity)

		// Idempotency runs after identity so keys are scoped per owner.
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger, cfg.Metrics)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Entries
		r.Route("/entries", func(r chi.Router) {
			r.Post("/", cfg.EntryHandler.Create)
			r.Get("/", cfg.EntryHandler.List)
			r.Get("/stores", cfg.EntryHandler.Stores)

			r.Get("/export", cfg.InterchangeHandler.Export)
			r.Post("/import", cfg.InterchangeHandler.Import)
			r.Get("/backup", cfg.InterchangeHandler.Backup)
			r.Post("/restore", cfg.InterchangeHandler.Restore)

			r.Post("/bulk-update", cfg.BulkHandler.Update)
			r.Post("/bulk-delete", cfg.BulkHandler.Delete)

			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Put("/{id}", cfg.EntryHandler.Update)
			r.Delete("/{id}", cfg.EntryHandler.Delete)
		})

		// Analytics
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/statistics", cfg.AnalyticsHandler.Statistics)
			r.Get("/spending-by-store", cfg.AnalyticsHandler.SpendingByStore)
			r.Get("/status-overview", cfg.AnalyticsHandler.StatusOverview)
			r.Get("/profit-by-store", cfg.AnalyticsHandler.ProfitByStore)
			r.Get("/monthly-spending", cfg.AnalyticsHandler.MonthlySpending)
		})
	})

	return r
}
