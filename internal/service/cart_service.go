package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService on top of a cart.Store.
type cartService struct {
	store  cart.Store
	orders OrderService
	logger zerolog.Logger
}

// NewCartService creates a cart service. Checkout goes through orders.
func NewCartService(store cart.Store, orders OrderService, logger zerolog.Logger) CartService {
	return &cartService{
		store:  store,
		orders: orders,
		logger: logger.With().Str("service", "cart").Logger(),
	}
}

// Get loads the user's cart.
func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.store.Load(ctx, userID.String())
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return c, nil
}

// Add merges item into the cart and saves it.
func (s *cartService) Add(ctx context.Context, userID uuid.UUID, item model.LineItem) (*cart.Cart, error) {
	return s.mutate(ctx, userID, func(c *cart.Cart) error {
		if err := c.Add(item); err != nil {
			if errors.Is(err, cart.ErrInvalidItem) {
				return model.Invalid("Cart item needs a product id and a positive quantity")
			}
			return err
		}
		return nil
	})
}

// Remove deletes the matching line from the cart.
func (s *cartService) Remove(ctx context.Context, userID uuid.UUID, item model.LineItem) (*cart.Cart, error) {
	return s.mutate(ctx, userID, func(c *cart.Cart) error {
		c.Remove(item)
		return nil
	})
}

func (s *cartService) mutate(ctx context.Context, userID uuid.UUID, fn func(*cart.Cart) error) (*cart.Cart, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, userID.String(), c); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to save cart")
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}

// Clear empties the user's cart.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Delete(ctx, userID.String()); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Checkout places an order for the cart contents at the prices captured
// when the items were added, then empties the cart.
func (s *cartService) Checkout(ctx context.Context, p auth.Principal) (*model.Order, error) {
	c, err := s.Get(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, model.ErrEmptyOrder
	}

	total := c.TotalPrice
	order, err := s.orders.CreateOrder(ctx, p.Email, &model.OrderRequest{Products: c.Products, Price: &total})
	if err != nil {
		return nil, err
	}

	if err := s.Clear(ctx, p.UserID); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("order placed but cart not cleared")
	}
	return order, nil
}
