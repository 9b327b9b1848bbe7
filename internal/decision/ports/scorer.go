package ports

import (
	"context"

	"loanassist/internal/application"
)

// Scorer is the pre-trained approval model. Score returns the probability of
// the approval class for an encoded application. Implementations are loaded
// once and must be safe for concurrent use.
type Scorer interface {
	Score(ctx context.Context, app application.EncodedApplication) (float64, error)
}
