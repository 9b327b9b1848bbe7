package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	audit "loanassist/pkg/platform/audit"
)

// Schema creates the audit_events table. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id            UUID PRIMARY KEY,
	category      TEXT NOT NULL,
	timestamp     TIMESTAMPTZ NOT NULL,
	action        TEXT NOT NULL,
	decision_id   TEXT NOT NULL,
	request_id    TEXT NOT NULL DEFAULT '',
	outcome       TEXT NOT NULL DEFAULT '',
	class         TEXT NOT NULL DEFAULT '',
	rule_id       TEXT NOT NULL DEFAULT '',
	score         DOUBLE PRECISION,
	model_version TEXT NOT NULL DEFAULT '',
	reason_codes  TEXT[] NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS audit_events_decision_idx ON audit_events (decision_id, timestamp);
`

// Store implements audit.Store and audit.Reader on PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema applies Schema.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

// Append inserts an audit event. Events without an ID get one; replays of
// the same ID are ignored.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	category := event.Category
	if category == "" {
		category = event.Action.Category()
	}

	query := `
		INSERT INTO audit_events (
			id, category, timestamp, action, decision_id, request_id,
			outcome, class, rule_id, score, model_version, reason_codes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		string(category),
		event.Timestamp,
		string(event.Action),
		event.DecisionID,
		event.RequestID,
		event.Outcome,
		event.Class,
		event.RuleID,
		nullableScore(event.Score),
		event.ModelVersion,
		pq.Array(nonNil(event.ReasonCodes)),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByDecision returns the events for one decision, oldest first.
func (s *Store) ListByDecision(ctx context.Context, decisionID string) ([]audit.Event, error) {
	query := `
		SELECT id, category, timestamp, action, decision_id, request_id,
			   outcome, class, rule_id, score, model_version, reason_codes
		FROM audit_events
		WHERE decision_id = $1
		ORDER BY timestamp ASC
	`

	rows, err := s.db.QueryContext(ctx, query, decisionID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent returns the N most recent events, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT id, category, timestamp, action, decision_id, request_id,
			   outcome, class, rule_id, score, model_version, reason_codes
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event

	for rows.Next() {
		var (
			event    audit.Event
			category string
			action   string
			score    sql.NullFloat64
			reasons  []string
		)

		err := rows.Scan(
			&event.ID,
			&category,
			&event.Timestamp,
			&action,
			&event.DecisionID,
			&event.RequestID,
			&event.Outcome,
			&event.Class,
			&event.RuleID,
			&score,
			&event.ModelVersion,
			pq.Array(&reasons),
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		event.Category = audit.EventCategory(category)
		event.Action = audit.Action(action)
		if score.Valid {
			v := score.Float64
			event.Score = &v
		}
		if len(reasons) > 0 {
			event.ReasonCodes = reasons
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}

	return events, nil
}

func nullableScore(score *float64) sql.NullFloat64 {
	if score == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *score, Valid: true}
}

func nonNil(codes []string) []string {
	if codes == nil {
		return []string{}
	}
	return codes
}
