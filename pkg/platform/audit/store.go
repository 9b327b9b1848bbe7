package audit

import (
	"context"
	"errors"
)

// Store persists audit events. Implementations must be safe for concurrent use.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Reader lists the events recorded for one decision, oldest first.
type Reader interface {
	ListByDecision(ctx context.Context, decisionID string) ([]Event, error)
}

// TeeStore fans every event out to all stores. Every store is attempted;
// the failures are joined.
type TeeStore []Store

func Tee(stores ...Store) TeeStore {
	return TeeStore(stores)
}

func (t TeeStore) Append(ctx context.Context, event Event) error {
	var errs []error
	for _, s := range t {
		if err := s.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ListByDecision reads from the first store that supports reads.
func (t TeeStore) ListByDecision(ctx context.Context, decisionID string) ([]Event, error) {
	for _, s := range t {
		if r, ok := s.(Reader); ok {
			return r.ListByDecision(ctx, decisionID)
		}
	}
	return nil, ErrNotReadable
}

// ErrNotReadable is returned when listing from a write-only sink.
var ErrNotReadable = errors.New("audit store does not support reads")
