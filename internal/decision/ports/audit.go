package ports

import (
	"context"

	"loanassist/pkg/platform/audit"
)

// AuditPublisher emits audit events for evaluated applications.
// Defined here to keep the decision package independent of the publisher
// implementation.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
