package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	decisionhandler "loanassist/internal/decision/handler"
	platformmetrics "loanassist/internal/platform/metrics"
	"loanassist/pkg/platform/circuit"
	"loanassist/pkg/platform/httputil"
	"loanassist/pkg/platform/middleware/accesslog"
	"loanassist/pkg/platform/middleware/request"
	"loanassist/pkg/platform/middleware/requesttime"
)

// Pinger is a dependency that can report its health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

type routerDeps struct {
	decisions   *decisionhandler.Handler
	httpMetrics *platformmetrics.HTTP
	logger      *slog.Logger
	breaker     *circuit.Breaker
	checks      map[string]Pinger
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(accesslog.Middleware(d.logger))
	r.Use(d.httpMetrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readiness(d.breaker, d.checks))
	r.Handle("/metrics", platformmetrics.Handler())

	d.decisions.Register(r)
	return r
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// readiness pings each dependency. An open scorer circuit is reported but
// does not fail readiness: rule rejections still work without the model.
func readiness(breaker *circuit.Breaker, checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := readinessResponse{Status: "ready", Checks: map[string]string{}}
		status := http.StatusOK
		for name, p := range checks {
			if err := p.PingContext(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		if breaker != nil {
			resp.Checks["scorer"] = "circuit " + breaker.State().String()
		}
		httputil.WriteJSON(w, status, resp)
	}
}
