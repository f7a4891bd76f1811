package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/revenue"

	"github.com/rs/zerolog"
)

// revenueService implements RevenueService.
type revenueService struct {
	orderRepo repository.OrderRepository
	location  *time.Location
	logger    zerolog.Logger
	now       func() time.Time
}

// NewRevenueService creates a revenue service that buckets orders in loc.
func NewRevenueService(orderRepo repository.OrderRepository, loc *time.Location, logger zerolog.Logger) RevenueService {
	if loc == nil {
		loc = time.Local
	}
	return &revenueService{
		orderRepo: orderRepo,
		location:  loc,
		logger:    logger.With().Str("service", "revenue").Logger(),
		now:       time.Now,
	}
}

// Report sums the paid orders of the current period. Unknown filters report the week.
func (s *revenueService) Report(ctx context.Context, filter string) (*model.RevenueReport, error) {
	period := revenue.ParsePeriod(filter)
	now := s.now().In(s.location)
	start, end := revenue.Window(period, now)

	orders, err := s.orderRepo.ListPaidBetween(ctx, start, end)
	if err != nil {
		s.logger.Error().Err(err).Str("period", string(period)).Msg("failed to load paid orders")
		return nil, fmt.Errorf("failed to build revenue report: %w", err)
	}

	report := revenue.Summarize(period, now, orders)

	s.logger.Debug().
		Str("period", string(period)).
		Int("orders", len(orders)).
		Str("total", report.TotalRevenue.String()).
		Msg("revenue report built")
	return &report, nil
}
