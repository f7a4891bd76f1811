package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaidOrder is the slice of an order the revenue report needs.
type PaidOrder struct {
	Price     decimal.Decimal
	CreatedAt time.Time
}

// RevenueBucket is one labelled period of a revenue report.
type RevenueBucket struct {
	Period  string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RevenueReport is the response of the revenue endpoint.
type RevenueReport struct {
	RevenueData  []RevenueBucket `json:"revenueData"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}
