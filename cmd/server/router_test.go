package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanassist/internal/application"
	"loanassist/internal/decision"
	decisionhandler "loanassist/internal/decision/handler"
	platformmetrics "loanassist/internal/platform/metrics"
	"loanassist/internal/scoring"
	"loanassist/pkg/platform/circuit"
	"loanassist/pkg/platform/middleware/request"
)

func testRouter(t *testing.T, checks map[string]Pinger) (http.Handler, *circuit.Breaker) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine, err := decision.NewEngine(scoring.ScorerFunc(func(context.Context, application.EncodedApplication) (float64, error) {
		return 0.9, nil
	}))
	require.NoError(t, err)
	breaker := circuit.New("scorer:test", circuit.WithFailureThreshold(1))

	return newRouter(routerDeps{
		decisions:   decisionhandler.New(decision.NewService(engine, decision.WithLogger(logger)), logger),
		httpMetrics: platformmetrics.NewHTTPWithRegistry(prometheus.NewRegistry()),
		logger:      logger,
		breaker:     breaker,
		checks:      checks,
	}), breaker
}

func TestHealthz(t *testing.T) {
	router, _ := testRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(request.HeaderRequestID))
}

func TestReadyz(t *testing.T) {
	healthy := PingerFunc(func(context.Context) error { return nil })
	down := PingerFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("all dependencies up", func(t *testing.T) {
		router, _ := testRouter(t, map[string]Pinger{"redis": healthy})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp readinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ready", resp.Status)
		assert.Equal(t, "ok", resp.Checks["redis"])
		assert.Equal(t, "circuit closed", resp.Checks["scorer"])
	})

	t.Run("dependency down", func(t *testing.T) {
		router, _ := testRouter(t, map[string]Pinger{"redis": healthy, "postgres": down})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp readinessResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "unavailable", resp.Status)
		assert.Equal(t, "connection refused", resp.Checks["postgres"])
	})

	t.Run("open circuit is reported but stays ready", func(t *testing.T) {
		router, breaker := testRouter(t, nil)
		breaker.RecordFailure()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "circuit open")
	})
}

func TestDecisionRoutesMounted(t *testing.T) {
	router, _ := testRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/loan/rules", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := testRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
