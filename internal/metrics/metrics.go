// Package metrics exposes Prometheus instrumentation for the storefront.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one process. Each instance owns its own
// registry so tests can create as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter    *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	OrdersCreated     prometheus.Counter
	OrderValue        prometheus.Counter
	PaymentsConfirmed *prometheus.CounterVec
	StockAdjustments  prometheus.Counter
}

// New creates and registers the storefront collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "Total number of orders created",
		}),
		OrderValue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_order_value_total",
			Help: "Sum of the totals of created orders",
		}),
		PaymentsConfirmed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_payment_confirmations_total",
				Help: "Payment confirmations by result",
			},
			[]string{"result"},
		),
		StockAdjustments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_stock_adjustments_total",
			Help: "Product options decremented by payment confirmations",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestCounter,
		m.RequestDuration,
		m.OrdersCreated,
		m.OrderValue,
		m.PaymentsConfirmed,
		m.StockAdjustments,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// The recording methods below are no-ops on a nil *Metrics.

// ObserveRequest records one served request. path should be the route
// pattern, not the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestCounter.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// OrderCreated records a new order of the given total.
func (m *Metrics) OrderCreated(total float64) {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
	m.OrderValue.Add(total)
}

// PaymentConfirmed records a confirmation attempt and the number of product
// options it decremented.
func (m *Metrics) PaymentConfirmed(result string, adjustments int) {
	if m == nil {
		return
	}
	m.PaymentsConfirmed.WithLabelValues(result).Inc()
	if adjustments > 0 {
		m.StockAdjustments.Add(float64(adjustments))
	}
}
