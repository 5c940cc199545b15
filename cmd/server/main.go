// Command server starts the T-GUARDIAN monitor API.
//
// Usage:
//
//	go run ./cmd/server [flags]
//
// Flags:
//
//	-port        HTTP port to listen on (default: 8080)
//	-dataset     Path to a dataset JSON file written by cmd/seed (default: generate in memory)
//	-audit-sink  log, mongo or redis (default: log)
//
// Every flag has an environment override; see internal/config.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"tguardian/monitor-api/internal/api"
	"tguardian/monitor-api/internal/audit"
	"tguardian/monitor-api/internal/config"
	"tguardian/monitor-api/internal/domain"
	"tguardian/monitor-api/internal/llm"
	"tguardian/monitor-api/internal/logging"
	"tguardian/monitor-api/internal/mockdata"
	"tguardian/monitor-api/internal/notify"
	"tguardian/monitor-api/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx, slog.Default(), os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	ctx = logging.WithLogger(ctx, logger)

	// ── Dataset ───────────────────────────────────────────────────────────────
	records, err := loadDataset(cfg)
	if err != nil {
		logger.Error("dataset not loaded", "error", err)
		os.Exit(1)
	}
	if err := mockdata.Validate(records); err != nil {
		// The API still serves a dataset that misses its targets.
		logger.Warn("dataset failed validation", "error", err)
	}

	// ── Wire dependencies ─────────────────────────────────────────────────────
	s := store.New(records)
	analyzer := llm.NewTemplateAnalyzer(cfg.LLMDelay)

	sink, closeSink, err := buildSink(ctx, cfg)
	if err != nil {
		logger.Error("audit sink not available", "sink", cfg.AuditSink, "error", err)
		os.Exit(1)
	}
	defer closeSink()

	notifier := notify.New(s, logger)
	handler := api.NewHandler(s, analyzer, sink, notifier, api.Options{MaxPerPage: cfg.MaxPerPage})
	router := api.NewRouter(handler, logger, cfg.CORSOrigins)

	// ── Start HTTP server ─────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server listening",
			"port", cfg.Port,
			"records", s.Len(),
			"audit_sink", sink.Name(),
			"analyzer", analyzer.Name(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	notifier.Wait()
	logger.Info("server stopped")
}

// loadDataset reads cfg.DatasetFile when set, otherwise assembles the dataset
// from cfg.Dataset.
func loadDataset(cfg config.Config) ([]domain.TransactionRecord, error) {
	if cfg.DatasetFile == "" {
		return mockdata.Build(cfg.Dataset), nil
	}
	f, err := os.Open(cfg.DatasetFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := mockdata.ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", cfg.DatasetFile, err)
	}
	return records, nil
}

// buildSink returns the configured audit sink and a func releasing its client.
// Mongo and Redis sinks are teed with the log sink so events stay visible in
// the process log.
func buildSink(ctx context.Context, cfg config.Config) (audit.Sink, func(), error) {
	noop := func() {}

	switch cfg.AuditSink {
	case config.SinkMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := audit.ConnectMongo(connectCtx, cfg.MongoURI)
		if err != nil {
			return nil, noop, err
		}
		sink := audit.NewMongoSink(audit.NewMongoProvider(client, cfg.MongoDatabase), client)
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logging.FromContext(ctx).Warn("mongo disconnect", "error", err)
			}
		}
		return audit.Tee{audit.LogSink{}, sink}, closeFn, nil

	case config.SinkRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("ping Redis at %s: %w", cfg.RedisAddr, err)
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logging.FromContext(ctx).Warn("redis close", "error", err)
			}
		}
		return audit.Tee{audit.LogSink{}, audit.NewRedisSink(client, cfg.RedisStream)}, closeFn, nil
	}

	return audit.LogSink{}, noop, nil
}
