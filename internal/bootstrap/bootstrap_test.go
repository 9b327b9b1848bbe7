package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanassist/internal/application"
	"loanassist/internal/platform/config"
	"loanassist/internal/scoring"
	"loanassist/pkg/platform/audit/store/memory"
	auditpg "loanassist/pkg/platform/audit/store/postgres"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Decision: config.Decision{Threshold: 0.5},
		Scoring: config.Scoring{
			ManifestPath: writeManifest(t, "http://127.0.0.1:1/score", ""),
			Timeout:      time.Second,
			Breaker:      config.Breaker{FailureThreshold: 3, SuccessThreshold: 1, Cooldown: time.Second},
		},
		Redis: config.RedisConfig{ScoreTTL: time.Minute},
		Kafka: config.Kafka{AuditTopic: "loanassist.audit"},
	}
}

func writeManifest(t *testing.T, endpoint, timeout string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("name: loan-approval\nversion: \"7\"\nendpoint: " + endpoint + "\n")
	if timeout != "" {
		b.WriteString("timeout: " + timeout + "\n")
	}
	b.WriteString("features:\n")
	for _, f := range application.FeatureNames() {
		b.WriteString("  - " + f + "\n")
	}
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestConnect_NothingConfigured(t *testing.T) {
	deps, err := Connect(context.Background(), testConfig(t))
	require.NoError(t, err)

	assert.Nil(t, deps.Redis)
	assert.Nil(t, deps.DB)
	assert.Nil(t, deps.Kafka)
	assert.NoError(t, deps.Close())
}

func TestConnect_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.URL = "redis://" + mr.Addr()

	deps, err := Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	assert.NotNil(t, deps.Redis)
}

func TestConnect_FailsWhenRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	cfg := testConfig(t)
	cfg.Redis.URL = "redis://" + addr

	_, err := Connect(context.Background(), cfg)
	assert.Error(t, err)
}

func TestLoadManifest_AppliesConfiguredTimeout(t *testing.T) {
	cfg := testConfig(t)

	manifest, err := LoadManifest(cfg)
	require.NoError(t, err)
	assert.Equal(t, time.Second, manifest.Timeout)

	cfg.Scoring.ManifestPath = writeManifest(t, "http://127.0.0.1:1/score", "250ms")
	manifest, err = LoadManifest(cfg)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, manifest.Timeout)
}

func TestNewScorer_WrapsWithCacheWhenRedisAvailable(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"probability":0.8}`))
	}))
	defer server.Close()

	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.URL = "redis://" + mr.Addr()
	cfg.Scoring.ManifestPath = writeManifest(t, server.URL, "")

	deps, err := Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })
	manifest, err := LoadManifest(cfg)
	require.NoError(t, err)

	stack := NewScorer(cfg, manifest, deps, discard(), nil)
	require.IsType(t, &scoring.CachingScorer{}, stack.Scorer)
	assert.Equal(t, "7", stack.Version)

	app := application.EncodedApplication{PersonAge: 30, PersonIncome: 50000, CreditScore: 700}
	for range 3 {
		score, err := stack.Scorer.Score(context.Background(), app)
		require.NoError(t, err)
		assert.Equal(t, 0.8, score)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewScorer_RemoteOnlyWithoutRedis(t *testing.T) {
	cfg := testConfig(t)
	manifest, err := LoadManifest(cfg)
	require.NoError(t, err)

	stack := NewScorer(cfg, manifest, &Dependencies{}, discard(), nil)
	assert.Same(t, stack.Remote, stack.Scorer)
	assert.Equal(t, "scorer:loan-approval", stack.Remote.Breaker().Name())
}

func TestNewAuditStore(t *testing.T) {
	cfg := testConfig(t)

	t.Run("memory when no database", func(t *testing.T) {
		tee := NewAuditStore(cfg, &Dependencies{})
		require.Len(t, tee, 1)
		assert.IsType(t, &memory.InMemoryStore{}, tee[0])
	})

	t.Run("postgres when connected", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		tee := NewAuditStore(cfg, &Dependencies{DB: db})
		require.Len(t, tee, 1)
		assert.IsType(t, &auditpg.Store{}, tee[0])
	})
}

func TestNewEngine_UsesConfiguredThreshold(t *testing.T) {
	cfg := testConfig(t)
	cfg.Decision.Threshold = 0.7

	engine, err := NewEngine(cfg, scoring.ScorerFunc(func(context.Context, application.EncodedApplication) (float64, error) {
		return 0.5, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, 0.7, engine.Threshold())

	cfg.Decision.Threshold = 2
	_, err = NewEngine(cfg, scoring.ScorerFunc(nil))
	assert.Error(t, err)
}
