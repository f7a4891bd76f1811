package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a catalogue entry with purchasable options.
type Product struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	Title      string          `json:"title" db:"title"`
	Desc       string          `json:"desc" db:"description"`
	Price      decimal.Decimal `json:"price" db:"price"`
	CatSlug    string          `json:"catSlug" db:"cat_slug"`
	Img        string          `json:"img" db:"img"`
	Options    []Option        `json:"options" db:"options"`
	IsFeatured bool            `json:"isFeatured" db:"is_featured"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// Option is a purchasable variant of a product with its own stock.
type Option struct {
	Title           string          `json:"title"`
	AdditionalPrice decimal.Decimal `json:"additionalPrice"`
	Quantity        int             `json:"quantity"`
}

// DecrementOption lowers the stock of the option titled title by qty,
// flooring at zero. It reports whether an option matched.
func (p *Product) DecrementOption(title string, qty int) bool {
	for i := range p.Options {
		if p.Options[i].Title != title {
			continue
		}
		p.Options[i].Quantity = max(0, p.Options[i].Quantity-qty)
		return true
	}
	return false
}

// ApplyLineItem decrements every option recorded on item by the line
// quantity and returns how many options matched.
func (p *Product) ApplyLineItem(item LineItem) int {
	matched := 0
	for _, opt := range item.Options {
		if p.DecrementOption(opt.Title, item.Quantity) {
			matched++
		}
	}
	return matched
}

// ProductRequest is the payload for creating or replacing a product.
type ProductRequest struct {
	Title      string          `json:"title"`
	Desc       string          `json:"desc"`
	Price      decimal.Decimal `json:"price"`
	CatSlug    string          `json:"catSlug"`
	Img        string          `json:"img"`
	Options    []Option        `json:"options"`
	IsFeatured bool            `json:"isFeatured"`
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	CatSlug  string
	All      bool
	Query    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Limit    int
	Offset   int
}

// ProductPage is a page of products with the total match count.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// ProductStats highlights notable catalogue entries.
type ProductStats struct {
	MostViewedProduct    *Product `json:"mostViewedProduct"`
	CheapestProduct      *Product `json:"cheapestProduct"`
	MostExpensiveProduct *Product `json:"mostExpensiveProduct"`
	MostLikedProduct     *Product `json:"mostLikedProduct"`
}
