package decision

import (
	"time"

	"github.com/google/uuid"

	"loanassist/internal/application"
)

// Class is the model-derived label of a decided application.
type Class string

const (
	ClassApproved Class = "Approved"
	ClassRejected Class = "Rejected"
)

// Outcome tells which path produced a verdict.
type Outcome string

const (
	OutcomeRejectedByRule Outcome = "rejected_by_rule"
	OutcomeDecided        Outcome = "decided"
)

// Verdict is the immutable result of one decision. It is either a rule
// rejection carrying the first rule that fired, or a model decision carrying
// the raw score and its class.
type Verdict struct {
	outcome Outcome
	rule    Rule
	score   float64
	class   Class
}

// RejectedByRule builds a verdict for an application stopped by rule.
func RejectedByRule(rule Rule) Verdict {
	return Verdict{outcome: OutcomeRejectedByRule, rule: rule, class: ClassRejected}
}

// Decided builds a verdict from a model score and the class it maps to.
func Decided(score float64, class Class) Verdict {
	return Verdict{outcome: OutcomeDecided, score: score, class: class}
}

func (v Verdict) Outcome() Outcome { return v.outcome }

// Class is Rejected for every rule rejection.
func (v Verdict) Class() Class { return v.class }

func (v Verdict) IsApproved() bool { return v.class == ClassApproved }

// Rule returns the rejecting rule; ok is false for model decisions.
func (v Verdict) Rule() (rule Rule, ok bool) {
	return v.rule, v.outcome == OutcomeRejectedByRule
}

// Reason is the short rejection reason, empty for model decisions.
func (v Verdict) Reason() string {
	if v.outcome != OutcomeRejectedByRule {
		return ""
	}
	return v.rule.Reason
}

// Score returns the model score; ok is false for rule rejections, where the
// model is never consulted.
func (v Verdict) Score() (score float64, ok bool) {
	return v.score, v.outcome == OutcomeDecided
}

// Message is the user-facing line rendered for the verdict.
func (v Verdict) Message() string {
	if v.outcome == OutcomeRejectedByRule {
		return v.rule.Message
	}
	return "Loan Prediction: " + string(v.class)
}

// Result is what the service returns for one evaluated application.
type Result struct {
	DecisionID   uuid.UUID
	EvaluatedAt  time.Time
	Encoded      application.EncodedApplication
	Verdict      Verdict
	ModelVersion string
}
