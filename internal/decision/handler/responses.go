package handler

import (
	"time"

	"loanassist/internal/application"
	"loanassist/internal/decision"
	audit "loanassist/pkg/platform/audit"
)

// DecisionResponse is the HTTP response for POST /loan/decisions.
type DecisionResponse struct {
	DecisionID   string                         `json:"decision_id"`
	Outcome      string                         `json:"outcome"`
	Class        string                         `json:"class"`
	Approved     bool                           `json:"approved"`
	Message      string                         `json:"message"`
	Reason       string                         `json:"reason,omitempty"`
	RuleID       string                         `json:"rule_id,omitempty"`
	Score        *float64                       `json:"score,omitempty"`
	Threshold    *float64                       `json:"threshold,omitempty"`
	ModelVersion string                         `json:"model_version,omitempty"`
	Encoded      application.EncodedApplication `json:"encoded"`
	EvaluatedAt  time.Time                      `json:"evaluated_at"`
}

// RulesResponse is the HTTP response for GET /loan/rules.
type RulesResponse struct {
	Rules     []decision.Rule `json:"rules"`
	Threshold float64         `json:"threshold"`
}

// FromResult converts a decision result to an HTTP response. The score and
// threshold are only present when the model was consulted.
func FromResult(result *decision.Result, threshold float64) *DecisionResponse {
	v := result.Verdict
	resp := &DecisionResponse{
		DecisionID:   result.DecisionID.String(),
		Outcome:      string(v.Outcome()),
		Class:        string(v.Class()),
		Approved:     v.IsApproved(),
		Message:      v.Message(),
		Reason:       v.Reason(),
		ModelVersion: result.ModelVersion,
		Encoded:      result.Encoded,
		EvaluatedAt:  result.EvaluatedAt,
	}
	if rule, ok := v.Rule(); ok {
		resp.RuleID = string(rule.ID)
	}
	if score, ok := v.Score(); ok {
		resp.Score = &score
		resp.Threshold = &threshold
	}
	return resp
}

// AuditTrailResponse lists the audit events recorded for one decision.
type AuditTrailResponse struct {
	DecisionID string        `json:"decision_id"`
	Events     []audit.Event `json:"events"`
}
