package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "loanassist/pkg/platform/audit"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestStore_AppendDecidedEvent(t *testing.T) {
	store, mock := newMockStore(t)
	score := 0.62

	mock.ExpectExec(`INSERT INTO audit_events`).
		WithArgs(
			sqlmock.AnyArg(), // id
			"compliance",
			sqlmock.AnyArg(), // timestamp
			"decision_made",
			"d-1",
			"req-1",
			"decided",
			"Approved",
			"",
			0.62,
			"v3",
			"{}",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Append(context.Background(), audit.Event{
		Timestamp:    time.Now(),
		Action:       audit.ActionDecisionMade,
		DecisionID:   "d-1",
		RequestID:    "req-1",
		Outcome:      "decided",
		Class:        "Approved",
		Score:        &score,
		ModelVersion: "v3",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AppendRuleRejectionStoresNullScore(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO audit_events`).
		WithArgs(
			sqlmock.AnyArg(),
			"compliance",
			sqlmock.AnyArg(),
			"decision_made",
			"d-2",
			"",
			"rejected_by_rule",
			"Rejected",
			"no_income",
			nil,
			"",
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Append(context.Background(), audit.Event{
		Action:      audit.ActionDecisionMade,
		DecisionID:  "d-2",
		Outcome:     "rejected_by_rule",
		Class:       "Rejected",
		RuleID:      "no_income",
		ReasonCodes: []string{"no_income"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AppendWrapsDriverError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO audit_events`).WillReturnError(errors.New("connection reset"))

	err := store.Append(context.Background(), audit.Event{Action: audit.ActionScoringFailed, DecisionID: "d-3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert audit event")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestStore_ListByDecision(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	ts := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "category", "timestamp", "action", "decision_id", "request_id",
		"outcome", "class", "rule_id", "score", "model_version", "reason_codes",
	}).
		AddRow(id.String(), "compliance", ts, "decision_made", "d-1", "req-1",
			"rejected_by_rule", "Rejected", "low_credit_score", nil, "", "{low_credit_score}").
		AddRow(uuid.New().String(), "compliance", ts.Add(time.Second), "decision_made", "d-1", "req-2",
			"decided", "Approved", "", 0.8, "v3", "{}")

	mock.ExpectQuery(`FROM audit_events`).WithArgs("d-1").WillReturnRows(rows)

	events, err := store.ListByDecision(context.Background(), "d-1")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, id, events[0].ID)
	assert.Equal(t, audit.ActionDecisionMade, events[0].Action)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.Nil(t, events[0].Score)
	assert.Equal(t, []string{"low_credit_score"}, events[0].ReasonCodes)

	require.NotNil(t, events[1].Score)
	assert.InDelta(t, 0.8, *events[1].Score, 1e-9)
	assert.Empty(t, events[1].ReasonCodes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_EnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS audit_events`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
