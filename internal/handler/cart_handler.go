package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles the signed-in user's server-held cart.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	c, err := h.service.Get(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, err, "failed to load cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	var item model.LineItem
	if !decodeJSON(w, r, &item, h.logger) {
		return
	}

	c, err := h.service.Add(r.Context(), p.UserID, item)
	if err != nil {
		writeServiceError(w, r, err, "failed to update cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// RemoveItem handles DELETE /api/cart/items requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	var item model.LineItem
	if !decodeJSON(w, r, &item, h.logger) {
		return
	}

	c, err := h.service.Remove(r.Context(), p.UserID, item)
	if err != nil {
		writeServiceError(w, r, err, "failed to update cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Clear(r.Context(), p.UserID); err != nil {
		writeServiceError(w, r, err, "failed to clear cart", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /api/cart/checkout requests.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	order, err := h.service.Checkout(r.Context(), *p)
	if err != nil {
		writeServiceError(w, r, err, "failed to check out", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}
