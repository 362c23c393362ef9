package hbdemo

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opOpen            = "open"
	opEnsureNamespace = "ensure_namespace"
	opEnsureTable     = "ensure_table"
	opWriteColumns    = "write_columns"
	opReadRow         = "read_row"
	opDeleteRow       = "delete_row"
)

// Metrics counts facade operations by outcome and records their latency.
// A nil *Metrics records nothing.
type Metrics struct {
	ops     *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewMetrics registers the facade collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hbdemo",
				Subsystem: "client",
				Name:      "operations_total",
				Help:      "Counter of storage client operations by result.",
			}, []string{"op", "result"}),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hbdemo",
				Subsystem: "client",
				Name:      "operation_duration_seconds",
				Help:      "Bucketed histogram of storage client operation latency.",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 16),
			}, []string{"op"}),
	}
	reg.MustRegister(m.ops, m.latency)
	return m
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.ops.WithLabelValues(op, resultLabel(err)).Inc()
	m.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsConnectivity(err):
		return "connectivity_error"
	case IsSchema(err):
		return "schema_error"
	case IsDataOperation(err):
		return "data_error"
	}
	return "error"
}
