// Package publisher emits audit events either synchronously or through a
// bounded buffer drained by a background worker.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "loanassist/pkg/platform/audit"
	"loanassist/pkg/platform/audit/worker"
)

var (
	ErrBufferFull = errors.New("audit buffer full")
	ErrClosed     = errors.New("audit publisher closed")
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
	clock   func() time.Time

	bufferSize int
	mu         sync.RWMutex
	closed     bool
	inbox      chan audit.Event
	done       chan struct{}
}

type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to async mode with a buffer of size
// n. A full buffer drops the event with ErrBufferFull instead of blocking.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		p.bufferSize = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func WithClock(clock func() time.Time) Option {
	return func(p *Publisher) {
		p.clock = clock
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.inbox = make(chan audit.Event, p.bufferSize)
		p.done = make(chan struct{})
		w := worker.NewWorker(store, p.inbox, worker.WithErrorHandler(p.persistFailed))
		go func() {
			defer close(p.done)
			_ = w.Run(context.Background())
		}()
	}
	return p
}

// Emit records an event. Missing ID, timestamp and category are filled in.
// In sync mode the store error is returned; in async mode only enqueueing
// can fail.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.clock()
	}
	if event.Category == "" {
		event.Category = event.Action.Category()
	}

	if p.inbox == nil {
		if err := p.store.Append(ctx, event); err != nil {
			p.persistFailed(event, err)
			return err
		}
		p.metrics.IncEmitted(event.Action)
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.inbox <- event:
		p.metrics.IncEmitted(event.Action)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.IncDropped()
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit buffer full, dropping event",
				"action", event.Action,
				"decision_id", event.DecisionID,
				"request_id", event.RequestID,
			)
		}
		return ErrBufferFull
	}
}

// ListByDecision returns the events recorded for a decision when the store
// supports reads. In async mode events still buffered are not yet visible.
func (p *Publisher) ListByDecision(ctx context.Context, decisionID string) ([]audit.Event, error) {
	r, ok := p.store.(audit.Reader)
	if !ok {
		return nil, audit.ErrNotReadable
	}
	return r.ListByDecision(ctx, decisionID)
}

// Close stops accepting events and, in async mode, waits until every buffered
// event has been handed to the store.
func (p *Publisher) Close() error {
	if p.inbox == nil {
		return nil
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.inbox)
	p.mu.Unlock()

	<-p.done
	return nil
}

func (p *Publisher) persistFailed(event audit.Event, err error) {
	p.metrics.IncPersistFailures()
	if p.logger != nil {
		p.logger.Error("audit persistence failed",
			"action", event.Action,
			"decision_id", event.DecisionID,
			"request_id", event.RequestID,
			"error", err,
		)
	}
}
