package service

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"storefront/internal/auth"
	"storefront/internal/invoice"
	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/notify"
	"storefront/internal/payment"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	gateway     payment.Gateway
	notifier    notify.Notifier
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	now         func() time.Time
}

// NewOrderService creates a new order service. m may be nil.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	gateway payment.Gateway,
	notifier notify.Notifier,
	m *metrics.Metrics,
	logger zerolog.Logger,
) OrderService {
	if gateway == nil {
		gateway = payment.Disabled{}
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		gateway:     gateway,
		notifier:    notifier,
		metrics:     m,
		logger:      logger.With().Str("service", "order").Logger(),
		now:         time.Now,
	}
}

// CreateOrder stores a new unpaid order. Prices come from the request and
// are not checked against the catalogue. Stock is untouched.
func (s *orderService) CreateOrder(ctx context.Context, email string, req *model.OrderRequest) (*model.Order, error) {
	// Validate request
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	total := model.LineItemsTotal(req.Products)
	if !total.IsPositive() {
		return nil, model.ErrInvalidTotal
	}
	if req.Price != nil && !req.Price.Equal(total) {
		s.logger.Warn().
			Str("client_total", req.Price.String()).
			Str("total", total.String()).
			Msg("order total mismatch")
		return nil, model.ErrTotalMismatch
	}

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order := &model.Order{
		ID:        uuid.New(),
		UserEmail: email,
		Products:  snapshot(req.Products),
		Price:     total,
		Status:    model.StatusNotPaid,
		CreatedAt: s.now().UTC(),
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.ID, order.Products); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(order.Products)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.metrics.OrderCreated(total.InexactFloat64())
	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Products)).
		Str("total", total.String()).
		Msg("order created successfully")

	return order, nil
}

// snapshot copies items so later edits of the request cannot reach the order.
func snapshot(items []model.LineItem) []model.LineItem {
	out := make([]model.LineItem, len(items))
	for i, item := range items {
		item.Title = strings.TrimSpace(item.Title)
		opts := make([]model.LineItemOption, len(item.Options))
		copy(opts, item.Options)
		item.Options = opts
		out[i] = item
	}
	return out
}

// List returns every order to admins and the caller's own orders otherwise.
func (s *orderService) List(ctx context.Context, p auth.Principal) ([]model.Order, error) {
	email := p.Email
	if p.IsAdmin {
		email = ""
	}
	return s.list(ctx, email)
}

// ListByUser returns the orders placed with email.
func (s *orderService) ListByUser(ctx context.Context, email string) ([]model.Order, error) {
	if email == "" {
		return nil, model.ErrUnauthorised
	}
	return s.list(ctx, email)
}

func (s *orderService) list(ctx context.Context, email string) ([]model.Order, error) {
	orders, err := s.orderRepo.List(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetByID returns an order to its owner or an admin.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID, p auth.Principal) (*model.Order, error) {
	order, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(order, p) {
		return nil, model.ErrForbidden
	}
	return order, nil
}

func (s *orderService) get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

func canAccess(order *model.Order, p auth.Principal) bool {
	return p.IsAdmin || (p.Email != "" && strings.EqualFold(order.UserEmail, p.Email))
}

// UpdateStatus overwrites the status of an order with any non-empty text.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, model.Invalid("Status is required")
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("order_id", id.String()).Str("status", status).Msg("order status updated")
	return order, nil
}

// SetAddress attaches the delivery address of an order.
func (s *orderService) SetAddress(ctx context.Context, id uuid.UUID, address *model.Address, p auth.Principal) (*model.Order, error) {
	if address == nil {
		return nil, model.Invalid("Address is required")
	}
	if strings.TrimSpace(address.Name) == "" || strings.TrimSpace(address.Line1) == "" {
		return nil, model.Invalid("Address name and line1 are required")
	}

	if _, err := s.GetByID(ctx, id, p); err != nil {
		return nil, err
	}
	return s.orderRepo.SetAddress(ctx, id, *address)
}

// Delete removes an order.
func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("order_id", id.String()).Msg("order deleted")
	return nil
}

// CreateIntent starts the payment of an order and records the intent on it.
func (s *orderService) CreateIntent(ctx context.Context, id uuid.UUID, p auth.Principal) (*model.PaymentIntent, error) {
	order, err := s.GetByID(ctx, id, p)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, order)
	if err != nil {
		return nil, err
	}

	if order.IntentID == nil || *order.IntentID != intent.IntentID {
		if err := s.orderRepo.SetIntentID(ctx, order.ID, intent.IntentID); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Str("order_id", id.String()).Str("intent_id", intent.IntentID).Msg("payment intent ready")
	return intent, nil
}

// ConfirmPayment moves the order paid through intentID to "Being prepared!"
// and decrements option stock for each of its line items in one transaction.
// Product rows are locked in id order. Items whose product no longer exists
// are skipped. Confirming the same intent twice decrements twice.
func (s *orderService) ConfirmPayment(ctx context.Context, intentID string) (*model.Order, error) {
	return s.confirmPayment(ctx, intentID, s.orderRepo.UpdateStatusByIntent)
}

// ConfirmUnpaidPayment confirms the order only while it is still unpaid.
func (s *orderService) ConfirmUnpaidPayment(ctx context.Context, intentID string) (*model.Order, error) {
	return s.confirmPayment(ctx, intentID, s.orderRepo.UpdateUnpaidStatusByIntent)
}

type intentUpdate func(ctx context.Context, tx pgx.Tx, intentID, status string) (*model.Order, error)

func (s *orderService) confirmPayment(ctx context.Context, intentID string, update intentUpdate) (*model.Order, error) {
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return nil, model.Invalid("Payment intent id is required")
	}

	order, adjusted, err := s.confirm(ctx, intentID, update)
	if err != nil {
		if err == model.ErrOrderNotFound {
			s.metrics.PaymentConfirmed("not_found", 0)
		} else {
			s.metrics.PaymentConfirmed("error", 0)
		}
		return nil, err
	}
	s.metrics.PaymentConfirmed("ok", adjusted)

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("intent_id", intentID).
		Int("options_adjusted", adjusted).
		Msg("payment confirmed")

	if err := s.notifier.OrderConfirmed(ctx, order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("failed to send confirmation")
	}
	return order, nil
}

func (s *orderService) confirm(ctx context.Context, intentID string, update intentUpdate) (order *model.Order, adjusted int, err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, 0, fmt.Errorf("failed to confirm payment: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err = update(ctx, tx, intentID, model.StatusBeingPrepared)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to confirm payment: %w", err)
	}
	if order == nil {
		s.logger.Warn().Str("intent_id", intentID).Msg("no order to confirm for payment intent")
		err = model.ErrOrderNotFound
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(order.Products))
	for _, item := range order.Products {
		ids = append(ids, item.ID)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	ids = slices.Compact(ids)

	products := make(map[uuid.UUID]*model.Product, len(ids))
	for _, id := range ids {
		var product *model.Product
		product, err = s.productRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to confirm payment: %w", err)
		}
		if product == nil {
			s.logger.Warn().
				Str("order_id", order.ID.String()).
				Str("product_id", id.String()).
				Msg("product no longer exists, skipping stock update")
			continue
		}
		products[id] = product
	}

	touched := make(map[uuid.UUID]bool, len(products))
	for _, item := range order.Products {
		product, ok := products[item.ID]
		if !ok {
			continue
		}
		if n := product.ApplyLineItem(item); n > 0 {
			adjusted += n
			touched[item.ID] = true
		}
	}

	for _, id := range ids {
		if !touched[id] {
			continue
		}
		if err = s.productRepo.UpdateOptions(ctx, tx, id, products[id].Options); err != nil {
			return nil, 0, fmt.Errorf("failed to confirm payment: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, 0, fmt.Errorf("failed to confirm payment: %w", err)
	}
	return order, adjusted, nil
}

// Invoice builds the invoice of an order.
func (s *orderService) Invoice(ctx context.Context, id uuid.UUID, p auth.Principal) (*invoice.Invoice, error) {
	order, err := s.GetByID(ctx, id, p)
	if err != nil {
		return nil, err
	}

	inv, err := invoice.Build(order, s.now().UTC())
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to build invoice")
		return nil, fmt.Errorf("failed to build invoice: %w", err)
	}
	return inv, nil
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil || len(req.Products) == 0 {
		return model.ErrEmptyOrder
	}

	// Validate each item
	for i, item := range req.Products {
		if item.ID == uuid.Nil {
			return model.Invalid(fmt.Sprintf("Product %d: id is required", i))
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ID.String()).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}

		if item.Price.IsNegative() {
			return model.Invalid(fmt.Sprintf("Product %d: price cannot be negative", i))
		}
		if !model.IsCents(item.Price) {
			return model.Invalid(fmt.Sprintf("Product %d: price has more than two decimal places", i))
		}

		for _, o := range item.Options {
			if strings.TrimSpace(o.Title) == "" || o.Quantity <= 0 {
				return model.Invalid(fmt.Sprintf("Product %d: options need a title and a positive quantity", i))
			}
			// Stock is decremented by the line quantity.
			if o.Quantity != item.Quantity {
				return model.Invalid(fmt.Sprintf("Product %d: option %q quantity must match the line quantity", i, o.Title))
			}
		}
	}

	return nil
}
