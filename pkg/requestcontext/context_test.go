package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))

	ctx = WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", RequestID(ctx))
}

func TestNow(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, fixed, Now(WithTime(context.Background(), fixed)))

	before := time.Now()
	got := Now(context.Background())
	assert.False(t, got.Before(before), "falls back to wall clock")
}
