package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/covid-data-etl/internal/adapter/export"
	"github.com/couchcryptid/covid-data-etl/internal/adapter/feed"
	httpadapter "github.com/couchcryptid/covid-data-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/covid-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/covid-data-etl/internal/adapter/store"
	"github.com/couchcryptid/covid-data-etl/internal/config"
	"github.com/couchcryptid/covid-data-etl/internal/observability"
	"github.com/couchcryptid/covid-data-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	db, err := store.New(cfg.DBPath, cfg.TargetCountry, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Notifications are feature-flagged via NOTIFY_ENABLED / KAFKA_BROKERS.
	var notifier pipeline.Notifier
	var notifierCloser *kafkaadapter.Notifier
	if cfg.NotifyEnabled {
		n := kafkaadapter.NewNotifier(cfg, logger)
		notifier = n
		notifierCloser = n
		logger.Info("kafka notifications enabled", "topic", cfg.KafkaNotifyTopic)
	} else {
		logger.Info("kafka notifications disabled")
	}

	fetcher := feed.NewClient(cfg.FetchTimeout, logger)
	exporter := export.NewWriter(cfg.ExportPath, logger)
	job := pipeline.NewJob(cfg, fetcher, db, exporter, notifier, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var exitCode int
	if cfg.RunSchedule == "" {
		// One-shot mode: run once and exit, as a scheduler-triggered batch job.
		if err := job.Run(ctx); err != nil {
			logger.Error("run failed", "error", err)
			exitCode = 1
		}
	} else {
		exitCode = runScheduled(ctx, cfg, job, logger)
	}

	if notifierCloser != nil {
		if err := notifierCloser.Close(); err != nil {
			logger.Error("kafka notifier close error", "error", err)
		}
	}
	os.Exit(exitCode)
}

// runScheduled keeps the process alive, running the job on the configured
// cron schedule and serving health/readiness/metrics over HTTP until a
// shutdown signal arrives.
func runScheduled(ctx context.Context, cfg *config.Config, job *pipeline.Job, logger *slog.Logger) int {
	srv := httpadapter.NewServer(cfg.HTTPAddr, job, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	sched := cron.New()
	_, err := sched.AddFunc(cfg.RunSchedule, func() {
		if err := job.Run(ctx); err != nil {
			logger.Error("scheduled run failed", "error", err)
		}
	})
	if err != nil {
		logger.Error("invalid RUN_SCHEDULE", "schedule", cfg.RunSchedule, "error", err)
		return 1
	}

	logger.Info("scheduler started", "schedule", cfg.RunSchedule)
	sched.Start()

	<-ctx.Done()
	logger.Info("shutting down")

	stopCtx := sched.Stop()
	<-stopCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return 0
}
