package handler

import (
	"loanassist/internal/application"
	dErrors "loanassist/pkg/domain-errors"
)

// EvaluateRequest is the HTTP request body for POST /loan/decisions. It is
// the raw application as the form collects it, loan_status included.
type EvaluateRequest struct {
	application.RawApplication
}

// Validate implements the Validatable interface for httputil.DecodeAndPrepare.
// Field-level checks already ran against the application schema; the encoder
// re-checks domain ranges.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}

// Application returns the raw application to evaluate.
func (r *EvaluateRequest) Application() application.RawApplication {
	return r.RawApplication
}
