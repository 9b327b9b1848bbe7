package decision

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"loanassist/internal/application"
	"loanassist/internal/decision/ports"
	dErrors "loanassist/pkg/domain-errors"
)

// DefaultThreshold is the minimum score classified as Approved.
const DefaultThreshold = 0.5

// Engine runs the eligibility battery and, when no rule rejects, classifies
// the model score against the approval threshold. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	scorer    ports.Scorer
	threshold float64
	tracer    trace.Tracer
}

type EngineOption func(*Engine)

// WithThreshold overrides DefaultThreshold. It must lie within [0, 1].
func WithThreshold(threshold float64) EngineOption {
	return func(e *Engine) {
		e.threshold = threshold
	}
}

func WithTracer(tracer trace.Tracer) EngineOption {
	return func(e *Engine) {
		e.tracer = tracer
	}
}

// NewEngine constructs an Engine around the injected scorer.
func NewEngine(scorer ports.Scorer, opts ...EngineOption) (*Engine, error) {
	if scorer == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "decision engine requires a scorer")
	}
	e := &Engine{
		scorer:    scorer,
		threshold: DefaultThreshold,
		tracer:    otel.Tracer("loanassist/decision"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !ValidThreshold(e.threshold) {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("threshold %v must be within [0, 1]", e.threshold))
	}
	return e, nil
}

// ValidThreshold reports whether t is a usable approval threshold.
func ValidThreshold(t float64) bool {
	return !math.IsNaN(t) && t >= 0 && t <= 1
}

func (e *Engine) Threshold() float64 { return e.threshold }

// Decide produces the verdict for an encoded application. Rules are checked in
// order and the first match short-circuits; the scorer is only called when
// every rule passes. A scorer failure, or a score that is not a probability,
// is returned as a scoring_error and never mapped to a class. The engine does
// not retry.
func (e *Engine) Decide(ctx context.Context, app application.EncodedApplication) (Verdict, error) {
	if rule, ok := FirstMatch(app); ok {
		return RejectedByRule(rule), nil
	}

	ctx, span := e.tracer.Start(ctx, "decision.score")
	defer span.End()

	score, err := e.scorer.Score(ctx, app)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scorer failed")
		return Verdict{}, dErrors.Wrap(err, dErrors.CodeScoring, "scoring model unavailable")
	}
	if math.IsNaN(score) || score < 0 || score > 1 {
		span.SetStatus(codes.Error, "score out of range")
		return Verdict{}, dErrors.New(dErrors.CodeScoring, fmt.Sprintf("scoring model returned %v, expected a probability in [0, 1]", score))
	}
	span.SetAttributes(attribute.Float64("decision.score", score))

	return Decided(score, e.classify(score)), nil
}

func (e *Engine) classify(score float64) Class {
	if score >= e.threshold {
		return ClassApproved
	}
	return ClassRejected
}
