// Package metrics defines the Prometheus collectors exported by the checkout service.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tablepay"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
	// ResultConflict marks a settlement rejected because its lines were already paid.
	ResultConflict = "conflict"
)

// Checkout groups the checkout collectors. A nil *Checkout is valid and records nothing.
type Checkout struct {
	Operations      *prometheus.CounterVec
	Settlements     *prometheus.CounterVec
	SettlementValue prometheus.Histogram
	OpenTables      prometheus.Gauge
}

// NewCheckout creates the checkout collectors and registers them on reg.
// A nil reg falls back to prometheus.DefaultRegisterer. Collectors that are
// already registered are reused.
func NewCheckout(reg prometheus.Registerer) *Checkout {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Checkout{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_operations_total",
			Help:      "Checkout operations by name and outcome.",
		}, []string{"operation", "result"}),
		Settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Settlement submissions by outcome.",
		}, []string{"result"}),
		SettlementValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_amount",
			Help:      "Final total of committed settlements in currency units.",
			Buckets:   []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2500},
		}),
		OpenTables: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_tables",
			Help:      "Tables with an active checkout session.",
		}),
	}

	mustRegister(reg, m.Operations, func(c prometheus.Collector) {
		if v, ok := c.(*prometheus.CounterVec); ok {
			m.Operations = v
		}
	})
	mustRegister(reg, m.Settlements, func(c prometheus.Collector) {
		if v, ok := c.(*prometheus.CounterVec); ok {
			m.Settlements = v
		}
	})
	mustRegister(reg, m.SettlementValue, func(c prometheus.Collector) {
		if v, ok := c.(prometheus.Histogram); ok {
			m.SettlementValue = v
		}
	})
	mustRegister(reg, m.OpenTables, func(c prometheus.Collector) {
		if v, ok := c.(prometheus.Gauge); ok {
			m.OpenTables = v
		}
	})
	return m
}

func mustRegister(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			reuse(are.ExistingCollector)
			return
		}
		panic(fmt.Errorf("register checkout metric: %w", err))
	}
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// ObserveOperation counts one checkout operation.
func (m *Checkout) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, result(err)).Inc()
}

// ObserveSettlement counts a settlement outcome. amount is only recorded for
// committed settlements.
func (m *Checkout) ObserveSettlement(outcome string, amount float64) {
	if m == nil {
		return
	}
	m.Settlements.WithLabelValues(outcome).Inc()
	if outcome == ResultOK {
		m.SettlementValue.Observe(amount)
	}
}

// SetOpenTables reports the number of active sessions.
func (m *Checkout) SetOpenTables(n int) {
	if m == nil {
		return
	}
	m.OpenTables.Set(float64(n))
}
