package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. LOANASSIST_DECISION_THRESHOLD.
const EnvPrefix = "LOANASSIST"

// Config is the full runtime configuration for the server and CLI.
type Config struct {
	Server   Server
	Decision Decision
	Scoring  Scoring
	Redis    RedisConfig
	Database Database
	Kafka    Kafka
	Audit    Audit
	Log      Log
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type Decision struct {
	Threshold float64
}

// Scoring points at the model manifest and tunes the remote call.
type Scoring struct {
	ManifestPath string
	Timeout      time.Duration
	Breaker      Breaker
}

type Breaker struct {
	FailureThreshold int
	SuccessThreshold int
	Cooldown         time.Duration
}

// RedisConfig backs the score cache. An empty URL disables caching.
type RedisConfig struct {
	URL          string
	ScoreTTL     time.Duration
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Database backs the Postgres audit store. An empty URL disables it.
type Database struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Kafka backs the audit event sink. No brokers disables it.
type Kafka struct {
	Brokers           []string
	AuditTopic        string
	Partitions        int32
	ReplicationFactor int16
}

type Audit struct {
	// AsyncBuffer > 0 makes audit emission asynchronous with that many slots.
	AsyncBuffer int
}

type Log struct {
	Level  string
	Format string
}

// Option adjusts how Load locates its inputs.
type Option func(*loader)

type loader struct {
	configFile string
	envFiles   []string
	viper      *viper.Viper
}

// WithConfigFile reads an explicit YAML file instead of searching for config.yaml.
func WithConfigFile(path string) Option {
	return func(l *loader) {
		l.configFile = path
	}
}

// WithEnvFiles overrides the dotenv files loaded before reading the environment.
func WithEnvFiles(paths ...string) Option {
	return func(l *loader) {
		l.envFiles = paths
	}
}

// WithViper lets callers share a viper instance that already has flags bound.
func WithViper(v *viper.Viper) Option {
	return func(l *loader) {
		l.viper = v
	}
}

// Load assembles configuration from defaults, an optional YAML file, an
// optional .env file and LOANASSIST_* environment variables, in increasing
// precedence.
func Load(opts ...Option) (*Config, error) {
	l := &loader{envFiles: []string{".env"}}
	for _, opt := range opts {
		opt(l)
	}
	if l.viper == nil {
		l.viper = viper.New()
	}

	for _, path := range l.envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	v := l.viper
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("decision.threshold", 0.5)
	v.SetDefault("scoring.manifest_path", "configs/model.yaml")
	v.SetDefault("scoring.timeout", 2*time.Second)
	v.SetDefault("scoring.breaker.failure_threshold", 5)
	v.SetDefault("scoring.breaker.success_threshold", 2)
	v.SetDefault("scoring.breaker.cooldown", 10*time.Second)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.score_ttl", 24*time.Hour)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.audit_topic", "loanassist.audit")
	v.SetDefault("kafka.partitions", 3)
	v.SetDefault("kafka.replication_factor", 1)
	v.SetDefault("audit.async_buffer", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: Server{
			Addr:            v.GetString("server.addr"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Decision: Decision{
			Threshold: v.GetFloat64("decision.threshold"),
		},
		Scoring: Scoring{
			ManifestPath: v.GetString("scoring.manifest_path"),
			Timeout:      v.GetDuration("scoring.timeout"),
			Breaker: Breaker{
				FailureThreshold: v.GetInt("scoring.breaker.failure_threshold"),
				SuccessThreshold: v.GetInt("scoring.breaker.success_threshold"),
				Cooldown:         v.GetDuration("scoring.breaker.cooldown"),
			},
		},
		Redis: RedisConfig{
			URL:          v.GetString("redis.url"),
			ScoreTTL:     v.GetDuration("redis.score_ttl"),
			PoolSize:     v.GetInt("redis.pool_size"),
			MinIdleConns: v.GetInt("redis.min_idle_conns"),
			DialTimeout:  v.GetDuration("redis.dial_timeout"),
			ReadTimeout:  v.GetDuration("redis.read_timeout"),
			WriteTimeout: v.GetDuration("redis.write_timeout"),
		},
		Database: Database{
			URL:             v.GetString("database.url"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Kafka: Kafka{
			Brokers:           brokers(v.GetStringSlice("kafka.brokers")),
			AuditTopic:        v.GetString("kafka.audit_topic"),
			Partitions:        v.GetInt32("kafka.partitions"),
			ReplicationFactor: int16(v.GetInt("kafka.replication_factor")),
		},
		Audit: Audit{
			AsyncBuffer: v.GetInt("audit.async_buffer"),
		},
		Log: Log{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}
}

// brokers accepts both a YAML list and a comma separated env value.
func brokers(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, b := range strings.Split(entry, ",") {
			if b = strings.TrimSpace(b); b != "" {
				out = append(out, b)
			}
		}
	}
	return out
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string
	if t := c.Decision.Threshold; math.IsNaN(t) || t < 0 || t > 1 {
		problems = append(problems, fmt.Sprintf("decision.threshold %v must be within [0,1]", t))
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		problems = append(problems, "server.addr is required")
	}
	if strings.TrimSpace(c.Scoring.ManifestPath) == "" {
		problems = append(problems, "scoring.manifest_path is required")
	}
	if c.Scoring.Timeout < 0 {
		problems = append(problems, "scoring.timeout must not be negative")
	}
	if c.Scoring.Breaker.FailureThreshold < 1 || c.Scoring.Breaker.SuccessThreshold < 1 {
		problems = append(problems, "scoring.breaker thresholds must be at least 1")
	}
	if c.Redis.URL != "" && c.Redis.ScoreTTL <= 0 {
		problems = append(problems, "redis.score_ttl must be positive when redis.url is set")
	}
	if len(c.Kafka.Brokers) > 0 && strings.TrimSpace(c.Kafka.AuditTopic) == "" {
		problems = append(problems, "kafka.audit_topic is required when kafka.brokers is set")
	}
	if c.Audit.AsyncBuffer < 0 {
		problems = append(problems, "audit.async_buffer must not be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q must be one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q must be json or text", c.Log.Format))
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
