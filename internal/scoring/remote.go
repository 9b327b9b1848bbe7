package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"loanassist/internal/application"
	"loanassist/pkg/platform/circuit"
	"loanassist/pkg/platform/sentinel"
)

const (
	defaultTimeout = 2 * time.Second
	maxResponse    = 1 << 20
)

type scoreRequest struct {
	Model    string    `json:"model"`
	Version  string    `json:"version"`
	Features []float64 `json:"features"`
}

type scoreResponse struct {
	Probability *float64 `json:"probability"`
}

// RemoteScorer calls the model-serving endpoint named by the manifest. Calls
// go through a circuit breaker; while it is open Score fails fast with
// sentinel.ErrUnavailable. The returned probability is passed on untouched.
type RemoteScorer struct {
	manifest Manifest
	client   *http.Client
	breaker  *circuit.Breaker
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
}

type RemoteOption func(*RemoteScorer)

func WithHTTPClient(client *http.Client) RemoteOption {
	return func(r *RemoteScorer) {
		r.client = client
	}
}

func WithBreaker(b *circuit.Breaker) RemoteOption {
	return func(r *RemoteScorer) {
		r.breaker = b
	}
}

func WithLogger(logger *slog.Logger) RemoteOption {
	return func(r *RemoteScorer) {
		r.logger = logger
	}
}

func WithMetrics(m *Metrics) RemoteOption {
	return func(r *RemoteScorer) {
		r.metrics = m
	}
}

// NewRemoteScorer builds a scorer for a validated manifest.
func NewRemoteScorer(manifest Manifest, opts ...RemoteOption) *RemoteScorer {
	timeout := manifest.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	r := &RemoteScorer{
		manifest: manifest,
		client:   &http.Client{Timeout: timeout},
		logger:   slog.Default(),
		tracer:   otel.Tracer("loanassist/scoring"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.breaker == nil {
		r.breaker = circuit.New("scorer:" + manifest.Name)
	}
	return r
}

// Version is the manifest's model version.
func (r *RemoteScorer) Version() string { return r.manifest.Version }

// Breaker exposes the circuit state for health reporting.
func (r *RemoteScorer) Breaker() *circuit.Breaker { return r.breaker }

func (r *RemoteScorer) Score(ctx context.Context, app application.EncodedApplication) (float64, error) {
	if !r.breaker.Allow() {
		return 0, fmt.Errorf("%w: circuit %s is open", sentinel.ErrUnavailable, r.breaker.Name())
	}

	ctx, span := r.tracer.Start(ctx, "scoring.remote",
		trace.WithAttributes(
			attribute.String("model.name", r.manifest.Name),
			attribute.String("model.version", r.manifest.Version),
		))
	defer span.End()

	start := time.Now()
	score, err := r.call(ctx, app)
	r.metrics.ObserveRequest(time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "score request failed")
		if _, change := r.breaker.RecordFailure(); change.Opened {
			r.metrics.SetBreakerOpen(true)
			r.logger.WarnContext(ctx, "scorer circuit opened",
				"model", r.manifest.Name,
				"version", r.manifest.Version,
				"error", err,
			)
		}
		return 0, err
	}
	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.metrics.SetBreakerOpen(false)
		r.logger.InfoContext(ctx, "scorer circuit closed",
			"model", r.manifest.Name,
			"version", r.manifest.Version,
		)
	}
	return score, nil
}

func (r *RemoteScorer) call(ctx context.Context, app application.EncodedApplication) (float64, error) {
	body, err := json.Marshal(scoreRequest{
		Model:    r.manifest.Name,
		Version:  r.manifest.Version,
		Features: app.Features(),
	})
	if err != nil {
		return 0, fmt.Errorf("marshal score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.manifest.Endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: score request: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponse))
		return 0, fmt.Errorf("%w: scorer responded %d", sentinel.ErrUnavailable, resp.StatusCode)
	}

	var out scoreResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponse)).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: decode score response: %v", sentinel.ErrMalformed, err)
	}
	if out.Probability == nil {
		return 0, fmt.Errorf("%w: score response has no probability", sentinel.ErrMalformed)
	}
	return *out.Probability, nil
}
