package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Status is free text; these are the values the service sets.
const (
	StatusNotPaid       = "Not Paid!"
	StatusPending       = "pending"
	StatusPaid          = "paid"
	StatusBeingPrepared = "Being prepared!"
	StatusDelivered     = "delivered"
)

// Order represents a customer order with frozen line items.
type Order struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserEmail string          `json:"userEmail" db:"user_email"`
	Products  []LineItem      `json:"products"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Status    string          `json:"status" db:"status"`
	Address   *Address        `json:"address,omitempty" db:"address"`
	IntentID  *string         `json:"intent_id,omitempty" db:"intent_id"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// LineItem is a snapshot of a product taken when it was added to the cart.
type LineItem struct {
	ID       uuid.UUID        `json:"id"`
	Title    string           `json:"title"`
	Img      string           `json:"img,omitempty"`
	Price    decimal.Decimal  `json:"price"`
	Quantity int              `json:"quantity"`
	Options  []LineItemOption `json:"options"`
}

// LineItemOption records how many units of a product option were bought.
type LineItemOption struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

// UnmarshalJSON accepts the legacy single optionTitle shape and always
// leaves Options non-nil.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	type plain LineItem
	aux := struct {
		*plain
		OptionTitle string `json:"optionTitle"`
	}{plain: (*plain)(li)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(li.Options) == 0 && aux.OptionTitle != "" {
		li.Options = []LineItemOption{{Title: aux.OptionTitle, Quantity: li.Quantity}}
	}
	if li.Options == nil {
		li.Options = []LineItemOption{}
	}
	return nil
}

// Subtotal returns the unit price multiplied by the quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// SameOptions reports whether li and other select the same option titles
// in the same order.
func (li LineItem) SameOptions(other LineItem) bool {
	if len(li.Options) != len(other.Options) {
		return false
	}
	for i := range li.Options {
		if li.Options[i].Title != other.Options[i].Title {
			return false
		}
	}
	return true
}

// IsCents reports whether d has at most two decimal places, the precision
// prices are stored with.
func IsCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// LineItemsTotal sums the subtotals of items.
func LineItemsTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Address is the delivery address attached to an order before payment.
type Address struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
	Notes      string `json:"notes,omitempty"`
}

// OrderRequest represents the request payload for creating an order.
// Price is the total the client computed; it is checked when present.
type OrderRequest struct {
	Products []LineItem       `json:"products"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// StatusUpdateRequest is the admin payload for overwriting an order status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// AddressRequest attaches a delivery address to an order.
type AddressRequest struct {
	Address *Address `json:"address"`
}

// PaymentIntent is returned to the client to complete payment.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
	IntentID     string `json:"intentId"`
}
