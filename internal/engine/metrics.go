package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NoopMetricsCollector discards everything. Used when no metrics
// backend is configured.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOperationDuration(operation string, d time.Duration) {}
func (NoopMetricsCollector) RecordOperationResult(operation, result string)            {}
func (NoopMetricsCollector) RecordTransaction(txType string, amount float64)           {}
func (NoopMetricsCollector) RecordReplay(operation string)                             {}
func (NoopMetricsCollector) RecordCompensation(accountID string, succeeded bool)       {}

// PrometheusMetrics is the production MetricsCollector, backed by
// client_golang. A nil *PrometheusMetrics is safe to call into.
type PrometheusMetrics struct {
	operationDuration *prometheus.HistogramVec
	operationResults  *prometheus.CounterVec
	transactionsTotal *prometheus.CounterVec
	transactionVolume *prometheus.CounterVec
	replaysTotal      *prometheus.CounterVec
	compensationTotal *prometheus.CounterVec
}

// NewPrometheusMetrics registers and returns the engine's metric set.
func NewPrometheusMetrics() *PrometheusMetrics {
	return &PrometheusMetrics{
		operationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "wallet_engine",
				Name:      "operation_duration_seconds",
				Help:      "Duration of engine operations by name.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		operationResults: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wallet_engine",
				Name:      "operation_results_total",
				Help:      "Total engine operations by name and result.",
			},
			[]string{"operation", "result"},
		),
		transactionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wallet_engine",
				Name:      "transactions_total",
				Help:      "Total completed transactions by type.",
			},
			[]string{"type"},
		),
		transactionVolume: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wallet_engine",
				Name:      "transaction_volume_total",
				Help:      "Sum of transaction amounts by type.",
			},
			[]string{"type"},
		),
		replaysTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wallet_engine",
				Name:      "idempotent_replays_total",
				Help:      "Total idempotent replays by operation.",
			},
			[]string{"operation"},
		),
		compensationTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wallet_engine",
				Name:      "compensation_total",
				Help:      "Total compensation attempts after a failed credit, by outcome.",
			},
			[]string{"outcome"},
		),
	}
}

func (m *PrometheusMetrics) RecordOperationDuration(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordOperationResult(operation, result string) {
	if m == nil {
		return
	}
	m.operationResults.WithLabelValues(operation, result).Inc()
}

func (m *PrometheusMetrics) RecordTransaction(txType string, amount float64) {
	if m == nil {
		return
	}
	m.transactionsTotal.WithLabelValues(txType).Inc()
	m.transactionVolume.WithLabelValues(txType).Add(amount)
}

func (m *PrometheusMetrics) RecordReplay(operation string) {
	if m == nil {
		return
	}
	m.replaysTotal.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordCompensation(accountID string, succeeded bool) {
	if m == nil {
		return
	}
	outcome := "succeeded"
	if !succeeded {
		outcome = "double_fault"
	}
	m.compensationTotal.WithLabelValues(outcome).Inc()
}
