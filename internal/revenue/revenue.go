// Package revenue turns paid orders into bucketed revenue reports.
package revenue

import (
	"time"

	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

// Period selects the reporting window.
type Period string

const (
	Week  Period = "week"
	Month Period = "month"
	Year  Period = "year"
)

// ParsePeriod maps a filter value to a Period. Unknown values fall back to Week.
func ParsePeriod(filter string) Period {
	switch Period(filter) {
	case Month:
		return Month
	case Year:
		return Year
	default:
		return Week
	}
}

// Window returns the half-open interval [start, end) of the period that
// contains now, in now's location. Weeks start on Monday.
func Window(p Period, now time.Time) (time.Time, time.Time) {
	loc := now.Location()
	y, m, d := now.Date()

	switch p {
	case Month:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	case Year:
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0)
	default:
		offset := (int(now.Weekday()) + 6) % 7
		start := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 7)
	}
}

// Labels returns the bucket labels of a period in report order.
func Labels(p Period) []string {
	switch p {
	case Month:
		return []string{"Week 1", "Week 2", "Week 3", "Week 4"}
	case Year:
		labels := make([]string, 12)
		for i := range labels {
			labels[i] = time.Month(i + 1).String()[:3]
		}
		return labels
	default:
		return []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	}
}

// bucket returns the index of the bucket t falls into.
func bucket(p Period, t time.Time) int {
	switch p {
	case Month:
		return min((t.Day()-1)/7, 3)
	case Year:
		return int(t.Month()) - 1
	default:
		return (int(t.Weekday()) + 6) % 7
	}
}

// Summarize buckets the orders created inside the window containing now.
// Orders outside the window are ignored, so the total always equals the sum
// of the buckets.
func Summarize(p Period, now time.Time, orders []model.PaidOrder) model.RevenueReport {
	start, end := Window(p, now)
	labels := Labels(p)

	sums := make([]decimal.Decimal, len(labels))
	for i := range sums {
		sums[i] = decimal.Zero
	}

	for _, o := range orders {
		t := o.CreatedAt.In(now.Location())
		if t.Before(start) || !t.Before(end) {
			continue
		}
		i := bucket(p, t)
		sums[i] = sums[i].Add(o.Price)
	}

	report := model.RevenueReport{
		RevenueData:  make([]model.RevenueBucket, len(labels)),
		TotalRevenue: decimal.Zero,
	}
	for i, label := range labels {
		report.RevenueData[i] = model.RevenueBucket{Period: label, Revenue: sums[i]}
		report.TotalRevenue = report.TotalRevenue.Add(sums[i])
	}
	return report
}
