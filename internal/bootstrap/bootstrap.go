// Package bootstrap assembles the decision stack from configuration. Both the
// HTTP server and the loanctl CLI build their services through it.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"loanassist/internal/decision"
	"loanassist/internal/platform/config"
	"loanassist/internal/platform/postgres"
	platformredis "loanassist/internal/platform/redis"
	"loanassist/internal/scoring"
	audit "loanassist/pkg/platform/audit"
	kafkasink "loanassist/pkg/platform/audit/publishers/kafka"
	auditpg "loanassist/pkg/platform/audit/store/postgres"
	"loanassist/pkg/platform/audit/store/memory"
	"loanassist/pkg/platform/circuit"
)

// Dependencies are the optional backing services. Anything not configured
// stays nil.
type Dependencies struct {
	Redis *platformredis.Client
	DB    *sql.DB
	Kafka *kgo.Client
}

// Connect dials Redis, Postgres and Kafka concurrently. Postgres gets the
// audit schema and Kafka the audit topic before Connect returns.
func Connect(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		client, err := platformredis.New(gctx, cfg.Redis)
		if err != nil {
			return err
		}
		deps.Redis = client
		return nil
	})

	g.Go(func() error {
		db, err := postgres.Open(gctx, cfg.Database)
		if err != nil || db == nil {
			return err
		}
		deps.DB = db
		return auditpg.New(db).EnsureSchema(gctx)
	})

	g.Go(func() error {
		if len(cfg.Kafka.Brokers) == 0 {
			return nil
		}
		client, err := kafkasink.NewClient(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			return err
		}
		deps.Kafka = client
		return kafkasink.EnsureTopic(gctx, client, cfg.Kafka.AuditTopic, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor)
	})

	if err := g.Wait(); err != nil {
		_ = deps.Close()
		return nil, err
	}
	return deps, nil
}

// Close releases every connected service.
func (d *Dependencies) Close() error {
	var errs []error
	if d.Redis != nil {
		errs = append(errs, d.Redis.Close())
	}
	if d.DB != nil {
		errs = append(errs, d.DB.Close())
	}
	if d.Kafka != nil {
		d.Kafka.Close()
	}
	return errors.Join(errs...)
}

// LoadManifest reads the model manifest named by the config. The configured
// scoring timeout applies when the manifest does not set one.
func LoadManifest(cfg *config.Config) (scoring.Manifest, error) {
	manifest, err := scoring.LoadManifest(cfg.Scoring.ManifestPath)
	if err != nil {
		return scoring.Manifest{}, err
	}
	if manifest.Timeout == 0 {
		manifest.Timeout = cfg.Scoring.Timeout
	}
	return manifest, nil
}

// Scorer is the assembled scoring stack.
type Scorer struct {
	// Remote is the breaker-guarded model client, exposed for health checks.
	Remote *scoring.RemoteScorer
	// Scorer is what the engine calls: Remote, behind the cache when Redis is up.
	Scorer  scoring.Scorer
	Version string
}

// NewScorer builds the remote scorer for manifest and wraps it with the Redis
// score cache when a Redis client is available.
func NewScorer(cfg *config.Config, manifest scoring.Manifest, deps *Dependencies, logger *slog.Logger, m *scoring.Metrics) *Scorer {
	breaker := circuit.New("scorer:"+manifest.Name,
		circuit.WithFailureThreshold(cfg.Scoring.Breaker.FailureThreshold),
		circuit.WithSuccessThreshold(cfg.Scoring.Breaker.SuccessThreshold),
		circuit.WithCooldown(cfg.Scoring.Breaker.Cooldown),
	)
	remote := scoring.NewRemoteScorer(manifest,
		scoring.WithBreaker(breaker),
		scoring.WithLogger(logger),
		scoring.WithMetrics(m),
	)

	s := &Scorer{Remote: remote, Scorer: remote, Version: manifest.Version}
	if deps != nil && deps.Redis != nil {
		s.Scorer = scoring.NewCachingScorer(remote, deps.Redis, manifest.Version, cfg.Redis.ScoreTTL,
			scoring.WithCacheLogger(logger),
			scoring.WithCacheMetrics(m),
		)
	}
	return s
}

// NewAuditStore picks the audit sinks. Postgres is the system of record when
// configured, otherwise events are kept in memory; Kafka receives a copy when
// brokers are set. The first store serves reads.
func NewAuditStore(cfg *config.Config, deps *Dependencies) audit.TeeStore {
	var stores []audit.Store
	if deps != nil && deps.DB != nil {
		stores = append(stores, auditpg.New(deps.DB))
	} else {
		stores = append(stores, memory.NewInMemoryStore())
	}
	if deps != nil && deps.Kafka != nil {
		stores = append(stores, kafkasink.New(deps.Kafka, cfg.Kafka.AuditTopic))
	}
	return audit.Tee(stores...)
}

// NewEngine builds the decision engine with the configured threshold.
func NewEngine(cfg *config.Config, scorer scoring.Scorer) (*decision.Engine, error) {
	engine, err := decision.NewEngine(scorer, decision.WithThreshold(cfg.Decision.Threshold))
	if err != nil {
		return nil, fmt.Errorf("build decision engine: %w", err)
	}
	return engine, nil
}
