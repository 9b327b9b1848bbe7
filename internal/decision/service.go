package decision

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"loanassist/internal/application"
	"loanassist/internal/decision/metrics"
	"loanassist/internal/decision/ports"
	dErrors "loanassist/pkg/domain-errors"
	"loanassist/pkg/platform/audit"
	"loanassist/pkg/requestcontext"
)

// Service runs one submission through the encoder and the engine, then
// records the outcome in metrics, logs and the audit trail. Audit failures
// are logged and never change a verdict.
type Service struct {
	engine         *Engine
	auditPublisher ports.AuditPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	modelVersion   string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithModelVersion tags results and audit events with the scorer's version.
func WithModelVersion(version string) Option {
	return func(s *Service) {
		s.modelVersion = version
	}
}

// NewService constructs a Service around an engine.
func NewService(engine *Engine, opts ...Option) *Service {
	s := &Service{
		engine: engine,
		logger: slog.Default(),
		tracer: otel.Tracer("loanassist/decision"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Threshold is the approval threshold the engine applies.
func (s *Service) Threshold() float64 {
	return s.engine.Threshold()
}

// Evaluate encodes raw and decides it. It returns an invalid_input error when
// encoding fails and a scoring_error when the model could not produce a
// usable score; rule and model rejections are ordinary results.
func (s *Service) Evaluate(ctx context.Context, raw application.RawApplication) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "decision.evaluate")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.ObserveEvaluateLatency(time.Since(start)) }()

	requestID := requestcontext.RequestID(ctx)
	decisionID := uuid.New()
	now := requestcontext.Now(ctx)
	span.SetAttributes(attribute.String("decision.id", decisionID.String()))

	encoded, err := application.Encode(raw)
	if err != nil {
		s.metrics.IncrementInvalid()
		span.SetStatus(codes.Error, "invalid application")
		s.logger.WarnContext(ctx, "application rejected as invalid input",
			"request_id", requestID,
			"decision_id", decisionID,
			"error", err,
		)
		s.emitAudit(ctx, audit.Event{
			Timestamp:   now,
			Action:      audit.ActionApplicationInvalid,
			DecisionID:  decisionID.String(),
			RequestID:   requestID,
			ReasonCodes: []string{string(dErrors.CodeInvalidInput)},
		})
		return nil, err
	}

	verdict, err := s.engine.Decide(ctx, encoded)
	if err != nil {
		s.metrics.IncrementScoringFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, "scoring failed")
		s.logger.ErrorContext(ctx, "scoring failed",
			"request_id", requestID,
			"decision_id", decisionID,
			"model_version", s.modelVersion,
			"error", err,
		)
		s.emitAudit(ctx, audit.Event{
			Timestamp:    now,
			Action:       audit.ActionScoringFailed,
			DecisionID:   decisionID.String(),
			RequestID:    requestID,
			ModelVersion: s.modelVersion,
			ReasonCodes:  []string{string(dErrors.CodeOf(err))},
		})
		return nil, err
	}

	event := audit.Event{
		Timestamp:  now,
		Action:     audit.ActionDecisionMade,
		DecisionID: decisionID.String(),
		RequestID:  requestID,
		Outcome:    string(verdict.Outcome()),
		Class:      string(verdict.Class()),
	}
	var ruleID string
	if rule, ok := verdict.Rule(); ok {
		ruleID = string(rule.ID)
		event.RuleID = ruleID
		event.ReasonCodes = []string{ruleID}
	}
	if score, ok := verdict.Score(); ok {
		event.Score = &score
		event.ModelVersion = s.modelVersion
		s.metrics.ObserveScore(score)
	}
	s.metrics.IncrementOutcome(string(verdict.Outcome()), string(verdict.Class()), ruleID)
	span.SetAttributes(
		attribute.String("decision.outcome", string(verdict.Outcome())),
		attribute.String("decision.class", string(verdict.Class())),
	)

	s.logger.InfoContext(ctx, "decision made",
		"request_id", requestID,
		"decision_id", decisionID,
		"outcome", verdict.Outcome(),
		"class", verdict.Class(),
		"rule", ruleID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.emitAudit(ctx, event)

	return &Result{
		DecisionID:   decisionID,
		EvaluatedAt:  now,
		Encoded:      encoded,
		Verdict:      verdict,
		ModelVersion: event.ModelVersion,
	}, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"request_id", event.RequestID,
			"decision_id", event.DecisionID,
			"action", event.Action,
			"error", err,
		)
	}
}
