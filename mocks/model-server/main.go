// Command model-server is a stand-in for the model-serving endpoint used in
// local runs and the e2e suite. It answers every score request with the
// probability from MODEL_PROBABILITY (default 0.62), or fails with
// MODEL_FAIL=true.
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"loanassist/internal/application"
	"loanassist/internal/platform/httpserver"
	"loanassist/pkg/platform/httputil"
)

type scoreRequest struct {
	Model    string    `json:"model"`
	Version  string    `json:"version"`
	Features []float64 `json:"features"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", "model-server")

	probability := 0.62
	if raw := os.Getenv("MODEL_PROBABILITY"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			logger.Error("invalid MODEL_PROBABILITY", "value", raw, "error", err)
			os.Exit(1)
		}
		probability = p
	}
	fail := os.Getenv("MODEL_FAIL") == "true"

	addr := os.Getenv("MODEL_ADDR")
	if addr == "" {
		addr = ":8501"
	}

	r := chi.NewRouter()
	r.Post("/v1/models/{model}:score", func(w http.ResponseWriter, r *http.Request) {
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request", http.StatusBadRequest)
			return
		}
		if len(req.Features) != application.FeatureCount {
			http.Error(w, "expected "+strconv.Itoa(application.FeatureCount)+" features", http.StatusBadRequest)
			return
		}
		if fail {
			http.Error(w, "model unavailable", http.StatusServiceUnavailable)
			return
		}
		logger.Info("scored", "model", chi.URLParam(r, "model"), "version", req.Version, "probability", probability)
		httputil.WriteJSON(w, http.StatusOK, map[string]float64{"probability": probability})
	})

	logger.Info("model server listening", "addr", addr, "probability", probability, "fail", fail)
	if err := httpserver.New(addr, r).ListenAndServe(); err != nil {
		logger.Error("model server stopped", "error", err)
		os.Exit(1)
	}
}
