package api

import (
	"net/http"
	"strconv"

	"github.com/estoquehub/internal/middleware"
)

// GetSummary godoc
// @Summary Stock summary
// @Description Totals used by the dashboard and report cards
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.StockSummary
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /reports/summary [get]
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.products.Summary(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// GetLowStock godoc
// @Summary Low stock products
// @Description Products at or below their minimum quantity, lowest first
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Product
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /reports/low-stock [get]
func (h *Handler) GetLowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.LowStock(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// GetReportHistory godoc
// @Summary Stock report history
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of reports (default 20, max 100)"
// @Success 200 {array} model.StockReport
// @Failure 400 {object} ErrorResponse "Invalid limit"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /reports/history [get]
func (h *Handler) GetReportHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "limit must be a number")
			return
		}
		limit = n
	}

	reports, err := h.reports.History(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reports)
}

// RunReport godoc
// @Summary Take a stock report now
// @Description Persist a snapshot attributed to the caller and notify the webhook on low stock
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 201 {object} model.StockReport
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Server error"
// @Router /reports/run [post]
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
		return
	}

	report, err := h.reports.Snapshot(r.Context(), claims.UserID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, report)
}
