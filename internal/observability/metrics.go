package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the batch job.
type Metrics struct {
	RunsTotal    *prometheus.CounterVec // labels: outcome={success,failure}
	StageErrors  *prometheus.CounterVec // labels: stage
	RowsFetched  *prometheus.CounterVec // labels: source
	RowsMerged   prometheus.Counter
	RowsAppended prometheus.Counter

	RunDuration     prometheus.Histogram
	JobRunning      prometheus.Gauge
	LastSuccessTime prometheus.Gauge
}

// NewMetrics creates and registers all job metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_etl",
			Name:      "runs_total",
			Help:      "Completed batch runs by outcome.",
		}, []string{"outcome"}),
		StageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_etl",
			Name:      "stage_errors_total",
			Help:      "Run failures by originating pipeline stage.",
		}, []string{"stage"}),
		RowsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_etl",
			Name:      "rows_fetched_total",
			Help:      "Raw rows fetched per feed source.",
		}, []string{"source"}),
		RowsMerged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_etl",
			Name:      "rows_merged_total",
			Help:      "Canonical rows produced by the merge stage.",
		}),
		RowsAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_etl",
			Name:      "rows_appended_total",
			Help:      "Rows appended to the store past the watermark.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "covid_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-validate-merge-persist run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		JobRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_etl",
			Name:      "job_running",
			Help:      "1 while a batch run is in progress, 0 otherwise.",
		}),
		LastSuccessTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_etl",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.StageErrors,
		m.RowsFetched,
		m.RowsMerged,
		m.RowsAppended,
		m.RunDuration,
		m.JobRunning,
		m.LastSuccessTime,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "covid_etl", Name: "runs_total"}, []string{"outcome"}),
		StageErrors:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "covid_etl", Name: "stage_errors_total"}, []string{"stage"}),
		RowsFetched:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "covid_etl", Name: "rows_fetched_total"}, []string{"source"}),
		RowsMerged:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "covid_etl", Name: "rows_merged_total"}),
		RowsAppended:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "covid_etl", Name: "rows_appended_total"}),
		RunDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "covid_etl", Name: "run_duration_seconds"}),
		JobRunning:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "covid_etl", Name: "job_running"}),
		LastSuccessTime: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "covid_etl", Name: "last_success_timestamp_seconds"}),
	}
}
