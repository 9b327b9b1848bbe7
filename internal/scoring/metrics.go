package scoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for model scoring.
type Metrics struct {
	RequestLatency *prometheus.HistogramVec
	CacheLookups   *prometheus.CounterVec
	BreakerOpen    prometheus.Gauge
}

// NewMetrics registers the scoring metrics. Call it once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loanassist_scoring_request_duration_seconds",
			Help:    "Duration of calls to the model-serving endpoint by result",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"result"}), // result: "ok", "error"

		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "loanassist_scoring_cache_lookups_total",
			Help: "Score cache lookups by result",
		}, []string{"result"}), // result: "hit", "miss", "error"

		BreakerOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "loanassist_scoring_circuit_open",
			Help: "Scorer circuit breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) ObserveRequest(d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RequestLatency.WithLabelValues(result).Observe(d.Seconds())
}

func (m *Metrics) IncCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}
