package handler

import (
	"net/http"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"
	"github.com/boddenberg/spendwise-api/internal/infra/observability"
	"github.com/boddenberg/spendwise-api/internal/port"
	"github.com/boddenberg/spendwise-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// RouterConfig carries the edge settings of the HTTP surface.
type RouterConfig struct {
	Verifier            port.TokenVerifier
	Limiter             port.RateLimiter // nil disables rate limiting
	AllowedOrigins      []string
	AllowedOriginSuffix string
	MaxBodyBytes        int64
	RequestTimeout      time.Duration
	Version             string
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc *service.FinanceService, cfg RouterConfig, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(CORSMiddleware(cfg.AllowedOrigins, cfg.AllowedOriginSuffix))
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.RequestSize(cfg.MaxBodyBytes))
	}

	// --- Operational endpoints ---
	r.Get("/health", healthHandler(cfg.Version))
	r.Get("/readyz", readyzHandler(svc, logger))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(RateLimitMiddleware(cfg.Limiter, metrics, logger))
		}
		r.Use(AuthMiddleware(cfg.Verifier, logger))
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", listAccountsHandler(svc, logger))
			r.Post("/", createAccountHandler(svc, logger))
			r.Get("/{id}", getAccountHandler(svc, logger))
			r.Patch("/{id}", updateAccountHandler(svc, logger))
			r.Delete("/{id}", deleteAccountHandler(svc, logger))
			r.Post("/{id}/adjust", adjustBalanceHandler(svc, logger))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", listCategoriesHandler(svc, logger))
			r.Post("/", createCategoryHandler(svc, logger))
			r.Patch("/{id}", updateCategoryHandler(svc, logger))
			r.Delete("/{id}", deleteCategoryHandler(svc, logger))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", listTransactionsHandler(svc, logger))
			r.Post("/", createTransactionHandler(svc, logger))
			r.Get("/{id}", getTransactionHandler(svc, logger))
			r.Patch("/{id}", updateTransactionHandler(svc, logger))
			r.Delete("/{id}", deleteTransactionHandler(svc, logger))
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", listBudgetsHandler(svc, logger))
			r.Post("/", createBudgetHandler(svc, logger))
			r.Patch("/{id}", updateBudgetHandler(svc, logger))
			r.Delete("/{id}", deleteBudgetHandler(svc, logger))
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", listGoalsHandler(svc, logger))
			r.Post("/", createGoalHandler(svc, logger))
			r.Get("/{id}", getGoalHandler(svc, logger))
			r.Patch("/{id}", updateGoalHandler(svc, logger))
			r.Delete("/{id}", deleteGoalHandler(svc, logger))
			r.Post("/{id}/contribute", contributeHandler(svc, logger))
			r.Get("/{id}/contributions", listContributionsHandler(svc, logger))
		})

		r.Route("/debts", func(r chi.Router) {
			r.Get("/", listDebtsHandler(svc, logger))
			r.Post("/", createDebtHandler(svc, logger))
			r.Get("/{id}", getDebtHandler(svc, logger))
			r.Patch("/{id}", updateDebtHandler(svc, logger))
			r.Delete("/{id}", deleteDebtHandler(svc, logger))
			r.Post("/{id}/pay", payDebtHandler(svc, logger))
			r.Get("/{id}/payments", listPaymentsHandler(svc, logger))
		})

		r.Get("/net-worth", netWorthHandler(svc, logger))
		r.Post("/net-worth/snapshot", netWorthSnapshotHandler(svc, logger))
		r.Get("/net-worth/history", netWorthHistoryHandler(svc, logger))

		r.Get("/analytics/summary", monthlySummaryHandler(svc, logger))
		r.Get("/analytics/health-score", healthScoreHandler(svc, logger))
		r.Get("/analytics/spending-patterns", spendingPatternsHandler(svc, logger))
		r.Get("/analytics/trends", trendsHandler(svc, logger))

		r.Get("/gamification/stats", statsHandler(svc, logger))
		r.Post("/gamification/check-in", checkInHandler(svc, logger))
		r.Get("/gamification/achievements", achievementsHandler(svc, logger))

		r.Get("/user/profile", getProfileHandler(svc, logger))
		r.Patch("/user/profile", updateProfileHandler(svc, logger))
	})

	return r
}

// ============================================================
// Operational Handlers
// ============================================================

func healthHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:    "ok",
			Version:   version,
			Timestamp: time.Now().UTC(),
		})
	}
}

func readyzHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Ready(r.Context()); err != nil {
			logger.Warn("readiness check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
