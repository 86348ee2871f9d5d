// Package metrics exposes Prometheus collectors for gateway operations.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels
const (
	OutcomeApproved = "approved"
	OutcomeDeclined = "declined"
	OutcomeError    = "error"
)

// GatewayMetrics groups the collectors recorded by the payment service.
type GatewayMetrics struct {
	Operations      *prometheus.CounterVec
	Duration        *prometheus.HistogramVec
	ReleaseFailures *prometheus.CounterVec
}

// NewGatewayMetrics registers and returns gateway collectors on reg.
// Collectors already registered on reg are reused.
func NewGatewayMetrics(namespace string, reg prometheus.Registerer) *GatewayMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &GatewayMetrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_operations_total",
			Help:      "Gateway operations by provider, operation and outcome.",
		}, []string{"provider", "operation", "outcome", "error_code"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_operation_duration_seconds",
			Help:      "Gateway operation latency in seconds.",
			Buckets:   []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider", "operation"}),
		ReleaseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_verify_release_failures_total",
			Help:      "Verify calls whose void of the probe authorization failed.",
		}, []string{"provider"}),
	}

	m.Operations = registerCounter(reg, m.Operations)
	m.Duration = registerHistogram(reg, m.Duration)
	m.ReleaseFailures = registerCounter(reg, m.ReleaseFailures)

	return m
}

var (
	defaultMetrics *GatewayMetrics
	defaultOnce    sync.Once
)

// Default returns collectors registered on the default Prometheus registry
func Default() *GatewayMetrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewGatewayMetrics("gosquare", prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// ObserveOperation records one finished operation
func (m *GatewayMetrics) ObserveOperation(provider, operation, outcome, errorCode string, d time.Duration) {
	m.Operations.WithLabelValues(provider, operation, outcome, errorCode).Inc()
	m.Duration.WithLabelValues(provider, operation).Observe(d.Seconds())
}

// IncReleaseFailure counts a verify whose probe authorization could not be voided
func (m *GatewayMetrics) IncReleaseFailure(provider string) {
	m.ReleaseFailures.WithLabelValues(provider).Inc()
}

func registerCounter(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register counter: %w", err))
	}
	return c
}

func registerHistogram(reg prometheus.Registerer, h *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register histogram: %w", err))
	}
	return h
}
