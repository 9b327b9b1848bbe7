package scoring

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"loanassist/internal/application"
)

const keyPrefix = "loanassist:score:"

// CachingScorer memoizes scores in Redis. Scores are a pure function of the
// feature vector for a given model version, so the key is the version plus a
// digest of the vector. Cache failures fall through to the wrapped scorer
// and never fail a decision.
type CachingScorer struct {
	next    Scorer
	client  redis.Cmdable
	version string
	ttl     time.Duration
	logger  *slog.Logger
	metrics *Metrics
}

type CacheOption func(*CachingScorer)

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *CachingScorer) {
		c.logger = logger
	}
}

func WithCacheMetrics(m *Metrics) CacheOption {
	return func(c *CachingScorer) {
		c.metrics = m
	}
}

// NewCachingScorer wraps next with a Redis cache scoped to a model version.
func NewCachingScorer(next Scorer, client redis.Cmdable, version string, ttl time.Duration, opts ...CacheOption) *CachingScorer {
	c := &CachingScorer{
		next:    next,
		client:  client,
		version: version,
		ttl:     ttl,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachingScorer) Score(ctx context.Context, app application.EncodedApplication) (float64, error) {
	key := CacheKey(c.version, app)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if score, perr := strconv.ParseFloat(cached, 64); perr == nil {
			c.metrics.IncCacheLookup("hit")
			return score, nil
		}
		c.metrics.IncCacheLookup("error")
		c.logger.WarnContext(ctx, "discarding unreadable cached score", "key", key)
	case errors.Is(err, redis.Nil):
		c.metrics.IncCacheLookup("miss")
	default:
		c.metrics.IncCacheLookup("error")
		c.logger.WarnContext(ctx, "score cache read failed", "error", err)
	}

	score, err := c.next.Score(ctx, app)
	if err != nil {
		return 0, err
	}
	// Only probabilities are worth remembering; anything else is rejected downstream.
	if !math.IsNaN(score) && score >= 0 && score <= 1 {
		if err := c.client.Set(ctx, key, strconv.FormatFloat(score, 'g', -1, 64), c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "score cache write failed", "error", err)
		}
	}
	return score, nil
}

// CacheKey derives the Redis key for an application under a model version.
func CacheKey(version string, app application.EncodedApplication) string {
	h := sha256.New()
	var buf [8]byte
	for _, f := range app.Features() {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	return keyPrefix + version + ":" + hex.EncodeToString(h.Sum(nil))
}
