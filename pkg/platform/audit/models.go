package audit

import (
	"time"

	"github.com/google/uuid"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers lending decisions, which carry regulatory
	// significance and long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers rejected submissions and scorer failures,
	// useful for debugging and operational visibility.
	CategoryOperations EventCategory = "operations"
)

// Action names what happened to a submission.
type Action string

const (
	ActionDecisionMade       Action = "decision_made"
	ActionApplicationInvalid Action = "application_invalid"
	ActionScoringFailed      Action = "scoring_failed"
)

var actionCategories = map[Action]EventCategory{
	ActionDecisionMade:       CategoryCompliance,
	ActionApplicationInvalid: CategoryOperations,
	ActionScoringFailed:      CategoryOperations,
}

// Category returns the EventCategory for this action.
// Unknown actions default to CategoryOperations.
func (a Action) Category() EventCategory {
	if cat, ok := actionCategories[a]; ok {
		return cat
	}
	return CategoryOperations
}

// Event summarises one evaluated submission. It never carries the applicant's
// raw attributes, only the outcome and how it was reached. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID         uuid.UUID     `json:"id"`
	Category   EventCategory `json:"category"`
	Timestamp  time.Time     `json:"timestamp"`
	Action     Action        `json:"action"`
	DecisionID string        `json:"decision_id"`
	RequestID  string        `json:"request_id,omitempty"`

	// Outcome is rejected_by_rule or decided; empty when no verdict was reached.
	Outcome string `json:"outcome,omitempty"`
	Class   string `json:"class,omitempty"`
	RuleID  string `json:"rule_id,omitempty"`
	// Score is set only when the model was consulted.
	Score        *float64 `json:"score,omitempty"`
	ModelVersion string   `json:"model_version,omitempty"`
	ReasonCodes  []string `json:"reason_codes,omitempty"`
}
