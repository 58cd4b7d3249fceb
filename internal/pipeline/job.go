package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/covid-data-etl/internal/config"
	"github.com/couchcryptid/covid-data-etl/internal/domain"
	"github.com/couchcryptid/covid-data-etl/internal/observability"
)

// Fetcher downloads and parses one feed endpoint into a raw dataset.
type Fetcher interface {
	Fetch(ctx context.Context, src config.FeedSource) (*domain.RawDataset, error)
}

// Store persists the canonical dataset. It owns the watermark: only rows
// strictly newer than the latest stored date are appended, and an empty store
// bootstraps with the full dataset. Returns the number of rows appended.
type Store interface {
	Append(ctx context.Context, dataset domain.CanonicalDataset) (int, error)
}

// Exporter writes the full canonical dataset to the flat-file artifact,
// overwriting the previous run's output.
type Exporter interface {
	Export(ctx context.Context, dataset domain.CanonicalDataset) error
}

// Notifier publishes a run report. Best-effort: the job logs notification
// failures and carries on.
type Notifier interface {
	Notify(ctx context.Context, report domain.RunReport) error
}

// Job orchestrates one scheduled batch run: fetch both feeds, build the
// canonical dataset, persist, export, notify.
type Job struct {
	sources  []config.FeedSource
	country  string
	fetcher  Fetcher
	store    Store
	exporter Exporter
	notifier Notifier
	logger   *slog.Logger
	metrics  *observability.Metrics

	ready      atomic.Bool
	mu         sync.Mutex
	lastReport *domain.RunReport
}

// NewJob wires the collaborators into a runnable batch job. notifier may be
// nil when notifications are disabled.
func NewJob(
	cfg *config.Config,
	fetcher Fetcher,
	store Store,
	exporter Exporter,
	notifier Notifier,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Job {
	return &Job{
		sources:  cfg.Sources,
		country:  cfg.TargetCountry,
		fetcher:  fetcher,
		store:    store,
		exporter: exporter,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once at least one run has completed successfully.
func (j *Job) CheckReadiness(_ context.Context) error {
	if !j.ready.Load() {
		return errors.New("no successful run yet")
	}
	return nil
}

// LastReport returns the most recent run report, if any run has finished.
func (j *Job) LastReport() (domain.RunReport, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastReport == nil {
		return domain.RunReport{}, false
	}
	return *j.lastReport, true
}

// Run executes one batch run end to end. The returned error is the run's
// terminal failure, already reported to the notifier; the caller decides
// whether to exit the process.
func (j *Job) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger := j.logger.With("run_id", runID)
	start := time.Now()

	j.metrics.JobRunning.Set(1)
	defer j.metrics.JobRunning.Set(0)

	report := j.runOnce(ctx, runID, logger)

	j.mu.Lock()
	j.lastReport = &report
	j.mu.Unlock()

	j.notify(ctx, logger, report)

	if !report.Success {
		j.metrics.RunsTotal.WithLabelValues("failure").Inc()
		if report.Stage != "" {
			j.metrics.StageErrors.WithLabelValues(string(report.Stage)).Inc()
		}
		return errors.New(report.Message)
	}

	j.ready.Store(true)
	j.metrics.RunsTotal.WithLabelValues("success").Inc()
	j.metrics.RunDuration.Observe(time.Since(start).Seconds())
	j.metrics.LastSuccessTime.SetToCurrentTime()
	logger.Info("run complete",
		"rows_merged", report.RowsMerged,
		"rows_appended", report.RowsAppended,
		"duration", time.Since(start),
	)
	return nil
}

// runOnce performs the fetch-build-persist-export sequence and folds the
// outcome into a RunReport. Fail-fast: the first stage error ends the run.
func (j *Job) runOnce(ctx context.Context, runID string, logger *slog.Logger) domain.RunReport {
	raw := make([]*domain.RawDataset, len(j.sources))
	for i, src := range j.sources {
		logger.Info("fetching feed", "source", src.ID, "url", src.URL)
		ds, err := j.fetcher.Fetch(ctx, src)
		if err != nil {
			return domain.NewFailureReport(runID, &domain.StageError{
				Stage:  domain.StageFetch,
				Source: src.ID,
				Err:    err,
			})
		}
		j.metrics.RowsFetched.WithLabelValues(string(src.ID)).Add(float64(len(ds.Rows)))
		raw[i] = ds
	}

	merged, err := BuildDataset(raw[0], raw[1], j.country)
	if err != nil {
		return domain.NewFailureReport(runID, err)
	}
	j.metrics.RowsMerged.Add(float64(len(merged)))

	appended, err := j.store.Append(ctx, merged)
	if err != nil {
		return domain.NewFailureReport(runID, &domain.StageError{Stage: domain.StagePersist, Err: err})
	}
	j.metrics.RowsAppended.Add(float64(appended))

	if err := j.exporter.Export(ctx, merged); err != nil {
		return domain.NewFailureReport(runID, &domain.StageError{Stage: domain.StageExport, Err: err})
	}

	return domain.NewSuccessReport(runID, len(merged), appended)
}

func (j *Job) notify(ctx context.Context, logger *slog.Logger, report domain.RunReport) {
	if j.notifier == nil {
		return
	}
	if err := j.notifier.Notify(ctx, report); err != nil {
		logger.Warn("run report notification failed", "error", err)
	}
}
