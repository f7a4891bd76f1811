// Package payment talks to the hosted payment provider.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"
)

// ErrInvalidEvent is returned for webhook payloads that fail verification or decoding.
var ErrInvalidEvent = errors.New("invalid payment event")

// Gateway creates payment intents and verifies provider callbacks.
type Gateway interface {
	// CreateIntent starts a payment for the order total, or returns the
	// intent already attached to the order.
	CreateIntent(ctx context.Context, order *model.Order) (*model.PaymentIntent, error)

	// SucceededIntent verifies a webhook payload and returns the id of the
	// intent it reports as succeeded. Other event types yield "".
	SucceededIntent(payload []byte, signature string) (string, error)
}

// StripeGateway implements Gateway with Stripe PaymentIntents.
type StripeGateway struct {
	intents       paymentintent.Client
	webhookSecret string
	currency      string
	logger        zerolog.Logger
}

// NewStripeGateway creates a Stripe-backed gateway. An empty webhook secret
// accepts unsigned events, which is only suitable for local testing.
func NewStripeGateway(secretKey, webhookSecret, currency string, logger zerolog.Logger) *StripeGateway {
	return &StripeGateway{
		intents:       paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		webhookSecret: webhookSecret,
		currency:      strings.ToLower(currency),
		logger:        logger.With().Str("component", "stripe").Logger(),
	}
}

// Currencies Stripe charges without a minor unit, or with three decimals.
var (
	zeroDecimal = map[string]bool{
		"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
		"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
		"vuv": true, "xaf": true, "xof": true, "xpf": true,
	}
	threeDecimal = map[string]bool{
		"bhd": true, "jod": true, "kwd": true, "omr": true, "tnd": true,
	}
)

// MinorUnits converts an amount to the provider's integer minor units for
// the currency. Unknown currencies use two decimals.
func MinorUnits(amount decimal.Decimal, currency string) int64 {
	exp := int32(2)
	switch c := strings.ToLower(currency); {
	case zeroDecimal[c]:
		exp = 0
	case threeDecimal[c]:
		exp = 3
	}
	return amount.Shift(exp).Round(0).IntPart()
}

// CreateIntent creates or fetches the order's PaymentIntent.
func (g *StripeGateway) CreateIntent(_ context.Context, order *model.Order) (*model.PaymentIntent, error) {
	if order.IntentID != nil && *order.IntentID != "" {
		pi, err := g.intents.Get(*order.IntentID, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch payment intent: %w", err)
		}
		return &model.PaymentIntent{ClientSecret: pi.ClientSecret, IntentID: pi.ID}, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(MinorUnits(order.Price, g.currency)),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		ReceiptEmail: stripe.String(order.UserEmail),
	}
	params.AddMetadata("order_id", order.ID.String())

	pi, err := g.intents.New(params)
	if err != nil {
		g.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create payment intent")
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	g.logger.Info().
		Str("order_id", order.ID.String()).
		Str("intent_id", pi.ID).
		Int64("amount", pi.Amount).
		Msg("payment intent created")

	return &model.PaymentIntent{ClientSecret: pi.ClientSecret, IntentID: pi.ID}, nil
}

// SucceededIntent verifies and decodes a Stripe webhook event.
func (g *StripeGateway) SucceededIntent(payload []byte, signature string) (string, error) {
	var (
		event stripe.Event
		err   error
	)

	if g.webhookSecret == "" {
		err = json.Unmarshal(payload, &event)
	} else {
		event, err = webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	}
	if err != nil {
		g.logger.Warn().Err(err).Msg("rejected webhook payload")
		return "", fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	if event.Type != stripe.EventTypePaymentIntentSucceeded {
		g.logger.Debug().Str("type", string(event.Type)).Msg("ignoring webhook event")
		return "", nil
	}

	var pi stripe.PaymentIntent
	if event.Data == nil || json.Unmarshal(event.Data.Raw, &pi) != nil || pi.ID == "" {
		return "", fmt.Errorf("%w: missing payment intent", ErrInvalidEvent)
	}
	return pi.ID, nil
}

// Disabled is the Gateway used when no provider is configured.
type Disabled struct{}

func (Disabled) CreateIntent(context.Context, *model.Order) (*model.PaymentIntent, error) {
	return nil, model.ErrPaymentUnavailable
}

func (Disabled) SucceededIntent([]byte, string) (string, error) {
	return "", model.ErrPaymentUnavailable
}
