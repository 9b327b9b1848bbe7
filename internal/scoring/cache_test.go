package scoring

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"loanassist/internal/application"
)

type CacheSuite struct {
	suite.Suite
	ctx    context.Context
	mr     *miniredis.Miniredis
	client *redis.Client
	calls  int
	score  float64
	err    error
	cache  *CachingScorer
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupTest() {
	s.ctx = context.Background()
	s.mr = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.T().Cleanup(func() { _ = s.client.Close() })

	s.calls, s.score, s.err = 0, 0.62, nil
	next := ScorerFunc(func(context.Context, application.EncodedApplication) (float64, error) {
		s.calls++
		return s.score, s.err
	})
	s.cache = NewCachingScorer(next, s.client, "2025.03", time.Hour,
		WithCacheLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func (s *CacheSuite) TestMissThenHit() {
	first, err := s.cache.Score(s.ctx, sampleApplication())
	s.Require().NoError(err)
	second, err := s.cache.Score(s.ctx, sampleApplication())
	s.Require().NoError(err)

	s.Equal(0.62, first)
	s.Equal(0.62, second)
	s.Equal(1, s.calls)
	s.True(s.mr.Exists(CacheKey("2025.03", sampleApplication())))
}

func (s *CacheSuite) TestEntriesExpire() {
	_, err := s.cache.Score(s.ctx, sampleApplication())
	s.Require().NoError(err)

	s.mr.FastForward(2 * time.Hour)

	_, err = s.cache.Score(s.ctx, sampleApplication())
	s.Require().NoError(err)
	s.Equal(2, s.calls)
}

func (s *CacheSuite) TestDifferentApplicationsDoNotCollide() {
	other := sampleApplication()
	other.CreditScore = 721

	s.NotEqual(CacheKey("2025.03", sampleApplication()), CacheKey("2025.03", other))
	s.NotEqual(CacheKey("2025.03", sampleApplication()), CacheKey("2025.04", sampleApplication()))

	_, _ = s.cache.Score(s.ctx, sampleApplication())
	_, _ = s.cache.Score(s.ctx, other)
	s.Equal(2, s.calls)
}

func (s *CacheSuite) TestScorerErrorsAreNotCached() {
	s.err = errors.New("endpoint down")

	_, err := s.cache.Score(s.ctx, sampleApplication())
	s.Require().Error(err)
	s.False(s.mr.Exists(CacheKey("2025.03", sampleApplication())))
}

func (s *CacheSuite) TestOutOfRangeScoresAreNotCached() {
	s.score = 1.5

	score, err := s.cache.Score(s.ctx, sampleApplication())
	s.Require().NoError(err)
	s.Equal(1.5, score)
	s.False(s.mr.Exists(CacheKey("2025.03", sampleApplication())))
}

func (s *CacheSuite) TestRedisDownFallsThrough() {
	s.mr.SetError("LOADING Redis is loading the dataset in memory")

	score, err := s.cache.Score(s.ctx, sampleApplication())
	s.Require().NoError(err)
	s.Equal(0.62, score)
	s.Equal(1, s.calls)
}

func (s *CacheSuite) TestUnreadableEntryIsRescored() {
	s.Require().NoError(s.mr.Set(CacheKey("2025.03", sampleApplication()), "not-a-number"))

	score, err := s.cache.Score(s.ctx, sampleApplication())
	s.Require().NoError(err)
	s.Equal(0.62, score)
	s.Equal(1, s.calls)
}
