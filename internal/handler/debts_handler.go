package handler

import (
	"net/http"

	"github.com/boddenberg/spendwise-api/internal/domain"
	"github.com/boddenberg/spendwise-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Debts Handlers
// ============================================================

func listDebtsHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /debts")
		defer span.End()

		settled, err := queryBool(r, "settled")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		res, err := svc.ListDebts(ctx, UserIDFromContext(ctx), settled)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func getDebtHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /debts/{id}")
		defer span.End()

		debt, err := svc.GetDebt(ctx, UserIDFromContext(ctx), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, debt)
	}
}

func createDebtHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /debts")
		defer span.End()

		var req createDebtRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		debt, err := svc.CreateDebt(ctx, &domain.Debt{
			UserID:          UserIDFromContext(ctx),
			PersonName:      req.PersonName,
			PersonContact:   req.PersonContact,
			Amount:          req.Amount,
			Description:     req.Description,
			DueDate:         req.DueDate,
			ReminderEnabled: req.ReminderEnabled,
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, debt)
	}
}

func updateDebtHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /debts/{id}")
		defer span.End()

		var patch domain.DebtPatch
		if err := decodeJSON(r, &patch); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		debt, err := svc.UpdateDebt(ctx, UserIDFromContext(ctx), chi.URLParam(r, "id"), patch)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, debt)
	}
}

func deleteDebtHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /debts/{id}")
		defer span.End()

		id := chi.URLParam(r, "id")
		if err := svc.DeleteDebt(ctx, UserIDFromContext(ctx), id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "Debt deleted", ID: id})
	}
}

func payDebtHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /debts/{id}/pay")
		defer span.End()

		var req amountRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		res, err := svc.PayDebt(ctx, UserIDFromContext(ctx), chi.URLParam(r, "id"), req.Amount, req.Note)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func listPaymentsHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /debts/{id}/payments")
		defer span.End()

		rows, err := svc.ListPayments(ctx, UserIDFromContext(ctx), chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"payments": rows})
	}
}
