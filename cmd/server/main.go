package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"loanassist/internal/bootstrap"
	"loanassist/internal/decision"
	decisionhandler "loanassist/internal/decision/handler"
	decisionmetrics "loanassist/internal/decision/metrics"
	"loanassist/internal/platform/config"
	"loanassist/internal/platform/httpserver"
	"loanassist/internal/platform/logger"
	platformmetrics "loanassist/internal/platform/metrics"
	"loanassist/internal/scoring"
	"loanassist/pkg/platform/audit/publisher"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []config.Option
	if path := os.Getenv("LOANASSIST_CONFIG"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	manifest, err := bootstrap.LoadManifest(cfg)
	if err != nil {
		return err
	}

	deps, err := bootstrap.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect dependencies: %w", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			log.Error("failed to close dependencies", "error", err)
		}
	}()

	scorer := bootstrap.NewScorer(cfg, manifest, deps, log, scoring.NewMetrics())
	engine, err := bootstrap.NewEngine(cfg, scorer.Scorer)
	if err != nil {
		return err
	}

	auditStore := bootstrap.NewAuditStore(cfg, deps)
	auditPublisher := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(cfg.Audit.AsyncBuffer),
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetrics()),
	)
	// Registered after deps.Close so buffered events drain before connections close.
	defer func() { _ = auditPublisher.Close() }()

	service := decision.NewService(engine,
		decision.WithLogger(log),
		decision.WithAuditPublisher(auditPublisher),
		decision.WithMetrics(decisionmetrics.New()),
		decision.WithModelVersion(scorer.Version),
	)

	checks := map[string]Pinger{}
	if deps.Redis != nil {
		checks["redis"] = PingerFunc(deps.Redis.Health)
	}
	if deps.DB != nil {
		checks["postgres"] = deps.DB
	}
	if deps.Kafka != nil {
		checks["kafka"] = PingerFunc(deps.Kafka.Ping)
	}

	router := newRouter(routerDeps{
		decisions:   decisionhandler.New(service, log, decisionhandler.WithAuditReader(auditPublisher)),
		httpMetrics: platformmetrics.NewHTTP(),
		logger:      log,
		breaker:     scorer.Remote.Breaker(),
		checks:      checks,
	})

	srv := httpserver.New(cfg.Server.Addr, router)
	log.Info("starting loanassist",
		"addr", cfg.Server.Addr,
		"model", manifest.Name,
		"model_version", manifest.Version,
		"threshold", engine.Threshold(),
		"score_cache", deps.Redis != nil,
		"audit_postgres", deps.DB != nil,
		"audit_kafka", deps.Kafka != nil,
	)

	if err := httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("loanassist stopped")
	return nil
}
