package handler

import (
	"net/http"

	"github.com/boddenberg/spendwise-api/internal/domain"
	"github.com/boddenberg/spendwise-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Categories Handlers
// ============================================================

func listCategoriesHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /categories")
		defer span.End()

		kind := r.URL.Query().Get("type")
		if kind != "" && kind != domain.TypeIncome && kind != domain.TypeExpense && kind != domain.TypeTransfer {
			writeError(w, http.StatusBadRequest, "type: must be one of income expense transfer")
			return
		}
		cats, err := svc.ListCategories(ctx, UserIDFromContext(ctx), kind)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"categories": cats})
	}
}

func createCategoryHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /categories")
		defer span.End()

		var req createCategoryRequest
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		cat, err := svc.CreateCategory(ctx, &domain.Category{
			UserID: UserIDFromContext(ctx),
			Name:   req.Name,
			Color:  req.Color,
			Icon:   req.Icon,
			Type:   req.Type,
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, cat)
	}
}

func updateCategoryHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /categories/{id}")
		defer span.End()

		var patch domain.CategoryPatch
		if err := decodeJSON(r, &patch); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		cat, err := svc.UpdateCategory(ctx, UserIDFromContext(ctx), chi.URLParam(r, "id"), patch)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, cat)
	}
}

func deleteCategoryHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /categories/{id}")
		defer span.End()

		id := chi.URLParam(r, "id")
		if err := svc.DeleteCategory(ctx, UserIDFromContext(ctx), id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "Category deleted", ID: id})
	}
}
