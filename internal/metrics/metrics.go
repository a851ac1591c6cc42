package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/beesaferoot/casadf-schema/integrity"
)

// Metrics holds the collectors for store operations and referential actions.
type Metrics struct {
	Operations       *prometheus.CounterVec
	OperationLatency *prometheus.HistogramVec
	IntegrityActions *prometheus.CounterVec
	IntegrityBlocked *prometheus.CounterVec
	Migrations       *prometheus.CounterVec
}

var (
	regOnce         sync.Once
	metricsInstance *Metrics
)

// Registry builds the process-wide metrics once and registers them with the
// default registerer.
func Registry(namespace string) *Metrics {
	regOnce.Do(func() {
		metricsInstance = New(namespace, prometheus.DefaultRegisterer)
	})
	return metricsInstance
}

// New builds a fresh set of collectors registered with reg.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Store operations by entity, operation and outcome.",
		}, []string{"entity", "op", "outcome"}),
		OperationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Latency distribution for store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity", "op"}),
		IntegrityActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integrity_rows_affected_total",
			Help:      "Dependent rows deleted or detached by referential actions.",
		}, []string{"relation", "action"}),
		IntegrityBlocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integrity_blocked_deletes_total",
			Help:      "Deletes rejected by a restrict relation.",
		}, []string{"relation"}),
		Migrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "migrations_total",
			Help:      "Schema migrations applied or reverted.",
		}, []string{"direction"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.Operations,
			m.OperationLatency,
			m.IntegrityActions,
			m.IntegrityBlocked,
			m.Migrations,
		)
	}
	return m
}

func (m *Metrics) ObserveOperation(entity, op, outcome string, elapsed time.Duration) {
	m.Operations.WithLabelValues(entity, op, outcome).Inc()
	m.OperationLatency.WithLabelValues(entity, op).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveAction(rel integrity.Relation, affected int64) {
	m.IntegrityActions.WithLabelValues(rel.Name, string(rel.OnDelete)).Add(float64(affected))
}

func (m *Metrics) ObserveBlocked(rel integrity.Relation) {
	m.IntegrityBlocked.WithLabelValues(rel.Name).Inc()
}

func (m *Metrics) ObserveMigration(direction string) {
	m.Migrations.WithLabelValues(direction).Inc()
}
