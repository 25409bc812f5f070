package handler

import (
	"net/http"

	"github.com/boddenberg/spendwise-api/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Net Worth Handlers
// ============================================================

func netWorthHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /net-worth")
		defer span.End()

		nw, err := svc.CurrentNetWorth(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, nw)
	}
}

func netWorthSnapshotHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /net-worth/snapshot")
		defer span.End()

		snap, err := svc.Snapshot(ctx, UserIDFromContext(ctx), service.TriggerManual)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, snap)
	}
}

func netWorthHistoryHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /net-worth/history")
		defer span.End()

		months, err := queryInt(r, "months")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		res, err := svc.History(ctx, UserIDFromContext(ctx), months)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ============================================================
// Analytics Handlers
// ============================================================

func monthlySummaryHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /analytics/summary")
		defer span.End()

		month, err := queryMonth(r, "month")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		res, err := svc.MonthlySummary(ctx, UserIDFromContext(ctx), month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func healthScoreHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /analytics/health-score")
		defer span.End()

		res, err := svc.HealthScore(ctx, UserIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func spendingPatternsHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /analytics/spending-patterns")
		defer span.End()

		month, err := queryMonth(r, "month")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		res, err := svc.SpendingPatterns(ctx, UserIDFromContext(ctx), month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func trendsHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /analytics/trends")
		defer span.End()

		months, err := queryInt(r, "months")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		res, err := svc.Trends(ctx, UserIDFromContext(ctx), months)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
