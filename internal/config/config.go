// Package config resolves server settings from command-line flags with
// environment-variable overrides. PaaS platforms inject PORT and friends as
// env vars, so the environment wins over flags.
package config

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"tguardian/monitor-api/internal/llm"
	"tguardian/monitor-api/internal/mockdata"
)

// Audit sink names accepted by AUDIT_SINK.
const (
	SinkLog   = "log"
	SinkMongo = "mongo"
	SinkRedis = "redis"
)

const (
	envPort              = "PORT"
	envDatasetFile       = "DATASET_FILE"
	envDatasetSeed       = "DATASET_SEED"
	envDatasetPopulation = "DATASET_POPULATION"
	envFraudQuota        = "FRAUD_QUOTA"
	envWarnQuota         = "WARN_QUOTA"
	envLLMDelay          = "LLM_DELAY"
	envAuditSink         = "AUDIT_SINK"
	envMongoURI          = "MONGO_URI"
	envMongoDatabase     = "MONGO_DATABASE"
	envRedisAddr         = "REDIS_ADDR"
	envRedisStream       = "REDIS_STREAM"
	envCORSOrigins       = "CORS_ORIGINS"
	envLogLevel          = "LOG_LEVEL"
	envMaxPerPage        = "MAX_PER_PAGE"

	defaultPort          = 8080
	defaultMongoURI      = "mongodb://localhost:27017"
	defaultMongoDatabase = "tguardian"
	defaultRedisAddr     = "localhost:6379"
	defaultRedisStream   = "tguardian:verdict_events"
	defaultCORSOrigins   = "*"
	defaultMaxPerPage    = 100
)

// Config holds the server configuration.
type Config struct {
	Port        int
	DatasetFile string // load records from this JSON file instead of generating
	Dataset     mockdata.Config
	LLMDelay    time.Duration

	AuditSink     string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisStream   string

	CORSOrigins []string
	LogLevel    string
	MaxPerPage  int
}

// Addr is the listen address for Port.
func (c Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// Load parses args (without the program name) and then applies environment
// overrides. Unparseable env values are logged and the flag value kept. Only
// malformed flags, or a final configuration that cannot work, are errors.
func Load(ctx context.Context, logger *slog.Logger, args []string) (Config, error) {
	def := mockdata.DefaultConfig()

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var cfg Config
	var origins string
	fs.IntVar(&cfg.Port, "port", defaultPort, "HTTP port")
	fs.StringVar(&cfg.DatasetFile, "dataset", "", "path to a dataset JSON file (default: generate)")
	fs.Int64Var(&cfg.Dataset.Seed, "dataset-seed", def.Seed, "generator seed")
	fs.IntVar(&cfg.Dataset.Population, "population", def.Population, "records to generate")
	fs.IntVar(&cfg.Dataset.FraudQuota, "fraud-quota", def.FraudQuota, "FRAUD records in the generated dataset")
	fs.IntVar(&cfg.Dataset.WarnQuota, "warn-quota", def.WarnQuota, "WARN records in the generated dataset")
	fs.DurationVar(&cfg.LLMDelay, "llm-delay", llm.DefaultDelay, "canned analyzer latency")
	fs.StringVar(&cfg.AuditSink, "audit-sink", SinkLog, "audit sink: log, mongo or redis")
	fs.StringVar(&cfg.MongoURI, "mongo-uri", defaultMongoURI, "MongoDB connection string")
	fs.StringVar(&cfg.MongoDatabase, "mongo-database", defaultMongoDatabase, "MongoDB database")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", defaultRedisAddr, "Redis address")
	fs.StringVar(&cfg.RedisStream, "redis-stream", defaultRedisStream, "Redis stream key")
	fs.StringVar(&origins, "cors-origins", defaultCORSOrigins, "comma-separated allowed CORS origins")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "debug, info, warn or error")
	fs.IntVar(&cfg.MaxPerPage, "max-per-page", defaultMaxPerPage, "largest accepted per_page")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	env := envReader{ctx: ctx, logger: logger}
	env.setInt(envPort, &cfg.Port)
	env.setString(envDatasetFile, &cfg.DatasetFile)
	env.setInt64(envDatasetSeed, &cfg.Dataset.Seed)
	env.setInt(envDatasetPopulation, &cfg.Dataset.Population)
	env.setInt(envFraudQuota, &cfg.Dataset.FraudQuota)
	env.setInt(envWarnQuota, &cfg.Dataset.WarnQuota)
	env.setDuration(envLLMDelay, &cfg.LLMDelay)
	env.setString(envAuditSink, &cfg.AuditSink)
	env.setString(envMongoURI, &cfg.MongoURI)
	env.setString(envMongoDatabase, &cfg.MongoDatabase)
	env.setString(envRedisAddr, &cfg.RedisAddr)
	env.setString(envRedisStream, &cfg.RedisStream)
	env.setString(envCORSOrigins, &origins)
	env.setString(envLogLevel, &cfg.LogLevel)
	env.setInt(envMaxPerPage, &cfg.MaxPerPage)

	cfg.AuditSink = strings.ToLower(strings.TrimSpace(cfg.AuditSink))
	cfg.CORSOrigins = splitList(origins)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("port %d out of range", c.Port)
	case c.Dataset.Population < 0 || c.Dataset.FraudQuota < 0 || c.Dataset.WarnQuota < 0:
		return fmt.Errorf("dataset sizes must not be negative")
	case c.MaxPerPage < 1:
		return fmt.Errorf("max per page must be at least 1, got %d", c.MaxPerPage)
	}
	switch c.AuditSink {
	case SinkLog, SinkMongo, SinkRedis:
	default:
		return fmt.Errorf("unknown audit sink %q", c.AuditSink)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// envReader overrides values from the environment, logging what it did.
type envReader struct {
	ctx    context.Context
	logger *slog.Logger
}

func (e envReader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (e envReader) invalid(key, value string, keep any, err error) {
	e.logger.WarnContext(e.ctx, "invalid environment value, keeping default",
		"key", key, "value", value, "default", keep, "error", err)
}

func (e envReader) setString(key string, dst *string) {
	if v, ok := e.lookup(key); ok {
		*dst = v
		e.logger.DebugContext(e.ctx, "config from environment", "key", key)
	}
}

func (e envReader) setInt(key string, dst *int) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.invalid(key, v, *dst, err)
		return
	}
	*dst = n
	e.logger.DebugContext(e.ctx, "config from environment", "key", key, "value", n)
}

func (e envReader) setInt64(key string, dst *int64) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		e.invalid(key, v, *dst, err)
		return
	}
	*dst = n
	e.logger.DebugContext(e.ctx, "config from environment", "key", key, "value", n)
}

// setDuration accepts Go duration strings ("750ms") or a bare number of milliseconds.
func (e envReader) setDuration(key string, dst *time.Duration) {
	v, ok := e.lookup(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		ms, convErr := strconv.Atoi(v)
		if convErr != nil {
			e.invalid(key, v, *dst, err)
			return
		}
		d = time.Duration(ms) * time.Millisecond
	}
	*dst = d
	e.logger.DebugContext(e.ctx, "config from environment", "key", key, "value", d)
}
