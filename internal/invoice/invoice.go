// Package invoice builds the invoice document of an order.
package invoice

import (
	"encoding/base64"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

// Line is one priced row of an invoice.
type Line struct {
	Title     string          `json:"title"`
	Options   []string        `json:"options"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// Invoice is the printable summary of an order.
type Invoice struct {
	Number    string          `json:"number"`
	OrderID   uuid.UUID       `json:"orderId"`
	IssuedAt  time.Time       `json:"issuedAt"`
	OrderedAt time.Time       `json:"orderedAt"`
	Customer  string          `json:"customer"`
	Address   *model.Address  `json:"address,omitempty"`
	Status    string          `json:"status"`
	Lines     []Line          `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	QRCode    string          `json:"qrCode"`
}

// Number returns the human readable invoice number of an order.
func Number(order *model.Order) string {
	return fmt.Sprintf("INV-%s-%s", order.CreatedAt.Format("20060102"), order.ID.String()[:8])
}

// Build renders the invoice of order issued at now. The total is the frozen
// order total, never recomputed from the lines.
func Build(order *model.Order, now time.Time) (*Invoice, error) {
	number := Number(order)

	qr, err := QRCode(fmt.Sprintf("%s|%s|%s", number, order.ID, order.Price.StringFixed(2)))
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(order.Products))
	for _, item := range order.Products {
		opts := make([]string, 0, len(item.Options))
		for _, o := range item.Options {
			opts = append(opts, o.Title)
		}
		lines = append(lines, Line{
			Title:     item.Title,
			Options:   opts,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
			Total:     item.Subtotal(),
		})
	}

	return &Invoice{
		Number:    number,
		OrderID:   order.ID,
		IssuedAt:  now,
		OrderedAt: order.CreatedAt,
		Customer:  order.UserEmail,
		Address:   order.Address,
		Status:    order.Status,
		Lines:     lines,
		Total:     order.Price,
		QRCode:    qr,
	}, nil
}

// QRCode encodes content as a PNG data URI.
func QRCode(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
