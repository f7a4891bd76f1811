// Package chat implements the rule-based shopping assistant.
package chat

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Canned replies.
const (
	ReplyOrders   = "You can check your orders under 'My orders'. Each order shows its status and delivery address."
	ReplyDelivery = "Delivery usually takes 2-5 business days depending on your area."
	ReplyReturns  = "You can return a product within 7 days of delivery. Please keep the tags, labels and receipt."
	ReplyPayment  = "We accept card payments at checkout. Your order is prepared as soon as the payment is confirmed."
	ReplyFallback = "Sorry, I did not understand that. Try asking about orders, delivery, returns or payment."
	ReplyNoStats  = "Sorry, product information is not available right now. Please try again later."
)

// StatsSource provides the highlighted products the assistant can talk about.
type StatsSource interface {
	Stats(ctx context.Context) (*model.ProductStats, error)
}

type rule struct {
	keywords []string
	reply    string
}

type statRule struct {
	keywords []string
	label    string
	pick     func(*model.ProductStats) *model.Product
}

var rules = []rule{
	{[]string{"order", "đơn hàng", "kiểm tra đơn"}, ReplyOrders},
	{[]string{"delivery", "shipping", "how long", "giao hàng", "bao lâu", "mấy ngày"}, ReplyDelivery},
	{[]string{"return", "refund", "exchange", "đổi trả", "trả hàng", "đổi sản phẩm"}, ReplyReturns},
	{[]string{"payment", "pay", "thanh toán", "trả tiền"}, ReplyPayment},
}

var statRules = []statRule{
	{[]string{"most viewed", "popular", "lượt xem"}, "Most viewed product",
		func(s *model.ProductStats) *model.Product { return s.MostViewedProduct }},
	{[]string{"cheapest", "rẻ nhất"}, "Cheapest product",
		func(s *model.ProductStats) *model.Product { return s.CheapestProduct }},
	{[]string{"most expensive", "đắt nhất"}, "Most expensive product",
		func(s *model.ProductStats) *model.Product { return s.MostExpensiveProduct }},
	{[]string{"most liked", "favorite", "favourite", "yêu thích"}, "Most liked product",
		func(s *model.ProductStats) *model.Product { return s.MostLikedProduct }},
}

// Assistant answers customer questions by keyword matching.
type Assistant struct {
	stats  StatsSource
	logger zerolog.Logger
}

// NewAssistant creates an assistant. stats may be nil.
func NewAssistant(stats StatsSource, logger zerolog.Logger) *Assistant {
	return &Assistant{
		stats:  stats,
		logger: logger.With().Str("component", "chat").Logger(),
	}
}

// Reply returns the answer to message. Product questions are checked first.
func (a *Assistant) Reply(ctx context.Context, message string) string {
	lower := strings.ToLower(strings.TrimSpace(message))

	for _, r := range statRules {
		if containsAny(lower, r.keywords) {
			return a.statReply(ctx, r)
		}
	}

	return Match(lower)
}

func (a *Assistant) statReply(ctx context.Context, r statRule) string {
	if a.stats == nil {
		return ReplyNoStats
	}

	stats, err := a.stats.Stats(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to load product stats")
		return ReplyNoStats
	}

	p := r.pick(stats)
	if p == nil {
		return fmt.Sprintf("No %s found.", strings.ToLower(r.label))
	}
	return fmt.Sprintf("%s: %s, price %s", r.label, p.Title, p.Price.StringFixed(2))
}

// Match returns the canned reply for message, or ReplyFallback.
func Match(message string) string {
	lower := strings.ToLower(message)
	for _, r := range rules {
		if containsAny(lower, r.keywords) {
			return r.reply
		}
	}
	return ReplyFallback
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
