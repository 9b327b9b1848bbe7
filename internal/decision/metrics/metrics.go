package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the decision module.
type Metrics struct {
	// Verdicts by outcome, class and rejecting rule
	DecisionOutcome *prometheus.CounterVec

	// Submissions rejected by the encoder before any rule ran
	InvalidApplications prometheus.Counter

	// Scorer failures and out-of-range scores
	ScoringFailures prometheus.Counter

	// Overall evaluation latency
	EvaluateLatency prometheus.Histogram

	// Score distribution for model decisions
	ModelScore prometheus.Histogram
}

// New creates a new Metrics instance with all decision module metrics registered.
func New() *Metrics {
	return &Metrics{
		DecisionOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "loanassist_decision_outcomes_total",
			Help: "Total decision outcomes by outcome, class and rule",
		}, []string{"outcome", "class", "rule"}),

		InvalidApplications: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanassist_decision_invalid_applications_total",
			Help: "Total submissions rejected as invalid input",
		}),

		ScoringFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loanassist_decision_scoring_failures_total",
			Help: "Total submissions that failed because the scoring model errored or returned a malformed score",
		}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "loanassist_decision_evaluate_duration_seconds",
			Help:    "Duration of full decision evaluation including scoring",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		ModelScore: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "loanassist_decision_model_score",
			Help:    "Distribution of approval probabilities returned by the scoring model",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}
}

// IncrementOutcome records a verdict. rule is empty for model decisions.
func (m *Metrics) IncrementOutcome(outcome, class, rule string) {
	if m != nil {
		m.DecisionOutcome.WithLabelValues(outcome, class, rule).Inc()
	}
}

func (m *Metrics) IncrementInvalid() {
	if m != nil {
		m.InvalidApplications.Inc()
	}
}

func (m *Metrics) IncrementScoringFailure() {
	if m != nil {
		m.ScoringFailures.Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveScore(score float64) {
	if m != nil {
		m.ModelScore.Observe(score)
	}
}
