package chat

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubStats struct {
	stats *model.ProductStats
	err   error
}

func (s stubStats) Stats(context.Context) (*model.ProductStats, error) {
	return s.stats, s.err
}

func TestMatch(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Where is my ORDER?", ReplyOrders},
		{"How long does shipping take", ReplyDelivery},
		{"Giao hàng mất mấy ngày?", ReplyDelivery},
		{"can I get a refund", ReplyReturns},
		{"Cách thanh toán?", ReplyPayment},
		{"hello", ReplyFallback},
		{"", ReplyFallback},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.message))
		})
	}
}

func TestAssistant_StatQuestions(t *testing.T) {
	cheap := &model.Product{Title: "Socks", Price: decimal.RequireFromString("2.5")}
	a := NewAssistant(stubStats{stats: &model.ProductStats{CheapestProduct: cheap}}, zerolog.Nop())

	assert.Equal(t, "Cheapest product: Socks, price 2.50", a.Reply(context.Background(), "what is the cheapest item?"))
	assert.Equal(t, "No most liked product found.", a.Reply(context.Background(), "most liked"))
	assert.Equal(t, ReplyReturns, a.Reply(context.Background(), "returns"))
}

func TestAssistant_StatsUnavailable(t *testing.T) {
	failing := NewAssistant(stubStats{err: errors.New("db down")}, zerolog.Nop())
	assert.Equal(t, ReplyNoStats, failing.Reply(context.Background(), "cheapest"))

	none := NewAssistant(nil, zerolog.Nop())
	assert.Equal(t, ReplyNoStats, none.Reply(context.Background(), "most viewed"))
}
