package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"storefront/internal/model"
	"storefront/internal/payment"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

const maxWebhookBytes = 64 << 10

// PaymentHandler confirms paid orders, either on the client's return from
// the payment page or from provider webhooks.
type PaymentHandler struct {
	orders  service.OrderService
	gateway payment.Gateway
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(orders service.OrderService, gateway payment.Gateway, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		orders:  orders,
		gateway: gateway,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// Confirm handles PUT /api/confirm/{intentId} requests.
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	intentID := strings.TrimSpace(r.PathValue("intentId"))

	if _, err := h.orders.ConfirmPayment(r.Context(), intentID); err != nil {
		writeServiceError(w, r, err, "failed to confirm payment", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Order has been updated"})
}

// Webhook handles POST /api/webhooks/stripe requests. Events for unknown
// intents are acknowledged so the provider stops retrying them.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "failed to read payload", h.logger)
		return
	}

	intentID, err := h.gateway.SucceededIntent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payment.ErrInvalidEvent) {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid webhook event", h.logger)
			return
		}
		writeServiceError(w, r, err, "failed to verify webhook", h.logger)
		return
	}

	if intentID == "" {
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	if _, err := h.orders.ConfirmUnpaidPayment(r.Context(), intentID); err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			h.logger.Warn().Str("intent_id", intentID).Msg("webhook for unknown or already confirmed payment intent")
			writeJSON(w, http.StatusOK, map[string]bool{"received": true})
			return
		}
		writeServiceError(w, r, err, "failed to confirm payment", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
