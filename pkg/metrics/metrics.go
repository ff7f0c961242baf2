package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type StoreMetrics struct {
	OrdersCreated  prometheus.Counter
	Payments       *prometheus.CounterVec
	Cancellations  *prometheus.CounterVec
	StockConflicts prometheus.Counter
}

func NewStoreMetrics() *StoreMetrics {
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "store",
		Name:      "orders_created_total",
		Help:      "Total number of orders placed.",
	})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "store",
		Name:      "payments_total",
		Help:      "Total number of payment attempts.",
	}, []string{"method", "outcome"})
	cancellations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "store",
		Name:      "cancellations_total",
		Help:      "Total number of order cancellations.",
	}, []string{"prior_status"})
	stockConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "store",
		Name:      "stock_conflicts_total",
		Help:      "Payments rejected because of insufficient stock.",
	})

	prometheus.MustRegister(ordersCreated, payments, cancellations, stockConflicts)
	return &StoreMetrics{
		OrdersCreated:  ordersCreated,
		Payments:       payments,
		Cancellations:  cancellations,
		StockConflicts: stockConflicts,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// The helpers below are nil-safe so services can run without metrics wired,
// i.e. in tests.

func (m *StoreMetrics) OrderCreated() {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
}

func (m *StoreMetrics) PaymentObserved(method, outcome string) {
	if m == nil {
		return
	}
	m.Payments.WithLabelValues(method, outcome).Inc()
}

func (m *StoreMetrics) CancellationObserved(priorStatus string) {
	if m == nil {
		return
	}
	m.Cancellations.WithLabelValues(priorStatus).Inc()
}

func (m *StoreMetrics) StockConflictObserved() {
	if m == nil {
		return
	}
	m.StockConflicts.Inc()
}
