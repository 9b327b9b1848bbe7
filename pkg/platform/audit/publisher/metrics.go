package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	audit "loanassist/pkg/platform/audit"
)

// Metrics holds Prometheus metrics for audit publishing.
type Metrics struct {
	Emitted         *prometheus.CounterVec
	Dropped         prometheus.Counter
	PersistFailures prometheus.Counter
}

// NewMetrics registers the audit publisher metrics. Call it once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		Emitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "loanassist_audit_events_emitted_total",
			Help: "Total number of audit events accepted by the publisher",
		}, []string{"action"}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanassist_audit_events_dropped_total",
			Help: "Total number of audit events dropped because the buffer was full",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanassist_audit_persist_failures_total",
			Help: "Total number of audit events the store failed to persist",
		}),
	}
}

func (m *Metrics) IncEmitted(action audit.Action) {
	if m != nil {
		m.Emitted.WithLabelValues(string(action)).Inc()
	}
}

func (m *Metrics) IncDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) IncPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}
