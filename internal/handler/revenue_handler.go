package handler

import (
	"net/http"

	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// RevenueHandler serves the admin revenue report.
type RevenueHandler struct {
	service service.RevenueService
	logger  zerolog.Logger
}

// NewRevenueHandler creates a new revenue handler.
func NewRevenueHandler(service service.RevenueService, logger zerolog.Logger) *RevenueHandler {
	return &RevenueHandler{
		service: service,
		logger:  logger.With().Str("handler", "revenue").Logger(),
	}
}

// Report handles GET /api/revenue?filter=week|month|year requests.
func (h *RevenueHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeServiceError(w, r, err, "failed to build revenue report", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
