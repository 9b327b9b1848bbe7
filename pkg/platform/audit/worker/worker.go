package worker

import (
	"context"

	audit "loanassist/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them. A failed
// append is reported to onError and the worker moves on to the next event.
type Worker struct {
	store   audit.Store
	inbox   <-chan audit.Event
	onError func(audit.Event, error)
}

type Option func(*Worker)

// WithErrorHandler sets the callback for events the store rejected.
func WithErrorHandler(fn func(audit.Event, error)) Option {
	return func(w *Worker) {
		w.onError = fn
	}
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, opts ...Option) *Worker {
	w := &Worker{store: store, inbox: inbox}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run appends events until the inbox is closed, then returns nil. Cancelling
// ctx stops it early with ctx.Err(); events still buffered are left unread.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.store.Append(ctx, event); err != nil && w.onError != nil {
				w.onError(event, err)
			}
		}
	}
}
