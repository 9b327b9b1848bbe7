//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	audit "loanassist/pkg/platform/audit"
	"loanassist/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Store
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = New(s.pg.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background(), "audit_events"))
}

func (s *PostgresStoreSuite) TestRoundTripsDecisionEvents() {
	ctx := context.Background()
	decisionID := uuid.NewString()
	score := 0.62
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	made := audit.Event{
		ID:           uuid.New(),
		Category:     audit.CategoryCompliance,
		Timestamp:    base,
		Action:       audit.ActionDecisionMade,
		DecisionID:   decisionID,
		RequestID:    "req-1",
		Outcome:      "decided",
		Class:        "Approved",
		Score:        &score,
		ModelVersion: "2025.03",
		ReasonCodes:  []string{"decided"},
	}
	rejected := audit.Event{
		ID:          uuid.New(),
		Category:    audit.CategoryCompliance,
		Timestamp:   base.Add(time.Second),
		Action:      audit.ActionDecisionMade,
		DecisionID:  decisionID,
		Outcome:     "rejected_by_rule",
		Class:       "Rejected",
		RuleID:      "no_income",
		ReasonCodes: []string{"no_income"},
	}
	s.Require().NoError(s.store.Append(ctx, made))
	s.Require().NoError(s.store.Append(ctx, rejected))

	events, err := s.store.ListByDecision(ctx, decisionID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)

	s.Equal(made.ID, events[0].ID)
	s.Require().NotNil(events[0].Score)
	s.InDelta(0.62, *events[0].Score, 1e-9)
	s.Equal([]string{"decided"}, events[0].ReasonCodes)
	s.True(base.Equal(events[0].Timestamp))

	s.Nil(events[1].Score)
	s.Equal("no_income", events[1].RuleID)
}

func (s *PostgresStoreSuite) TestAppendIsIdempotentOnEventID() {
	ctx := context.Background()
	event := audit.Event{
		ID:         uuid.New(),
		Category:   audit.CategoryOperations,
		Timestamp:  time.Now().UTC(),
		Action:     audit.ActionScoringFailed,
		DecisionID: uuid.NewString(),
	}

	s.Require().NoError(s.store.Append(ctx, event))
	s.Require().NoError(s.store.Append(ctx, event))

	events, err := s.store.ListByDecision(ctx, event.DecisionID)
	s.Require().NoError(err)
	s.Len(events, 1)
}

func (s *PostgresStoreSuite) TestListRecent() {
	ctx := context.Background()
	base := time.Now().UTC()
	for i := range 3 {
		s.Require().NoError(s.store.Append(ctx, audit.Event{
			ID:         uuid.New(),
			Category:   audit.CategoryCompliance,
			Timestamp:  base.Add(time.Duration(i) * time.Second),
			Action:     audit.ActionDecisionMade,
			DecisionID: uuid.NewString(),
		}))
	}

	events, err := s.store.ListRecent(ctx, 2)
	s.Require().NoError(err)
	s.Len(events, 2)
}
