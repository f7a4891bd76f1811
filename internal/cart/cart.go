// Package cart holds the server-side shopping cart of a signed-in user.
package cart

import (
	"context"
	"errors"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidItem is returned when an item cannot be added to a cart.
var ErrInvalidItem = errors.New("cart item must have a product id and a positive quantity")

// Cart is the accumulated selection of a user. Totals are derived from
// Products after every mutation.
type Cart struct {
	Products   []model.LineItem `json:"products"`
	TotalItems int              `json:"totalItems"`
	TotalPrice decimal.Decimal  `json:"totalPrice"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{Products: []model.LineItem{}, TotalPrice: decimal.Zero}
}

func sameLine(a, b model.LineItem) bool {
	return a.ID == b.ID && a.SameOptions(b)
}

// Add merges item into the line with the same product and options or
// appends it as a new line.
func (c *Cart) Add(item model.LineItem) error {
	if item.Quantity <= 0 || item.ID == uuid.Nil {
		return ErrInvalidItem
	}
	if item.Options == nil {
		item.Options = []model.LineItemOption{}
	}

	for i := range c.Products {
		line := &c.Products[i]
		if !sameLine(*line, item) {
			continue
		}
		line.Quantity += item.Quantity
		for j := range line.Options {
			line.Options[j].Quantity += item.Options[j].Quantity
		}
		c.recalculate()
		return nil
	}

	c.Products = append(c.Products, item)
	c.recalculate()
	return nil
}

// Remove deletes the line matching item's product and options.
// It reports whether a line was removed.
func (c *Cart) Remove(item model.LineItem) bool {
	for i := range c.Products {
		if sameLine(c.Products[i], item) {
			c.Products = append(c.Products[:i], c.Products[i+1:]...)
			c.recalculate()
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Products = []model.LineItem{}
	c.recalculate()
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Products) == 0
}

func (c *Cart) recalculate() {
	c.TotalItems = 0
	for _, p := range c.Products {
		c.TotalItems += p.Quantity
	}
	c.TotalPrice = model.LineItemsTotal(c.Products)
}

// Store persists carts between requests.
type Store interface {
	// Load returns the user's cart, or an empty cart when none is stored.
	Load(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, userID string, c *Cart) error
	Delete(ctx context.Context, userID string) error
}
