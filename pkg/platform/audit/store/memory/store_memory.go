package memory

import (
	"context"
	"sync"

	audit "loanassist/pkg/platform/audit"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	order  []audit.Event
	events map[string][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.events = make(map[string][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, event)
	s.events[event.DecisionID] = append(s.events[event.DecisionID], event)
	return nil
}

func (s *InMemoryStore) ListByDecision(_ context.Context, decisionID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[decisionID]...), nil
}

// ListRecent returns up to limit of the most recently appended events, oldest
// first. A non-positive limit returns everything.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if limit > 0 && limit < len(s.order) {
		start = len(s.order) - limit
	}
	return append([]audit.Event{}, s.order[start:]...), nil
}

// Len reports how many events have been appended.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
