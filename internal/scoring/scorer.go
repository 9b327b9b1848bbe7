package scoring

import (
	"context"

	"loanassist/internal/application"
)

// ScorerFunc adapts a plain function to the decision engine's scorer port.
type ScorerFunc func(ctx context.Context, app application.EncodedApplication) (float64, error)

func (f ScorerFunc) Score(ctx context.Context, app application.EncodedApplication) (float64, error) {
	return f(ctx, app)
}

// Scorer matches the decision engine's scorer port.
type Scorer interface {
	Score(ctx context.Context, app application.EncodedApplication) (float64, error)
}
