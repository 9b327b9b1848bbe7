package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "loanassist/pkg/platform/audit"
	"loanassist/pkg/platform/audit/store/memory"
)

type failingStore struct{ err error }

func (f failingStore) Append(context.Context, audit.Event) error { return f.err }

func TestTee_AppendsToEveryStore(t *testing.T) {
	first := memory.NewInMemoryStore()
	second := memory.NewInMemoryStore()
	tee := audit.Tee(first, second)

	require.NoError(t, tee.Append(context.Background(), audit.Event{DecisionID: "d-1", Action: audit.ActionDecisionMade}))

	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 1, second.Len())
}

func TestTee_AttemptsAllAndJoinsErrors(t *testing.T) {
	errA := errors.New("postgres down")
	errB := errors.New("kafka down")
	mem := memory.NewInMemoryStore()
	tee := audit.Tee(failingStore{errA}, mem, failingStore{errB})

	err := tee.Append(context.Background(), audit.Event{DecisionID: "d-1"})

	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, 1, mem.Len())
}

func TestTee_ReadsFromFirstReader(t *testing.T) {
	mem := memory.NewInMemoryStore()
	tee := audit.Tee(failingStore{}, mem)
	require.NoError(t, tee.Append(context.Background(), audit.Event{DecisionID: "d-1"}))

	events, err := tee.ListByDecision(context.Background(), "d-1")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestTee_WriteOnly(t *testing.T) {
	_, err := audit.Tee(failingStore{}).ListByDecision(context.Background(), "d-1")
	assert.ErrorIs(t, err, audit.ErrNotReadable)
}

func TestAction_Category(t *testing.T) {
	assert.Equal(t, audit.CategoryCompliance, audit.ActionDecisionMade.Category())
	assert.Equal(t, audit.CategoryOperations, audit.ActionScoringFailed.Category())
}
