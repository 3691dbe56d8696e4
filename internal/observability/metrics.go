package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the ingestion
// pipeline.
type Metrics struct {
	UploadsTotal  prometheus.Counter
	UploadRejects *prometheus.CounterVec // label: reason={empty_input,malformed_csv,unrecognized_schema,other}

	RecordsParsed     prometheus.Counter
	RecordsRetained   prometheus.Counter
	RecordsSucceeded  prometheus.Counter
	RecordsFailed     prometheus.Counter
	DatetimeFallbacks prometheus.Counter

	Batches        *prometheus.CounterVec // label: outcome={success,schema_mismatch,error}
	BatchSize      prometheus.Histogram
	IngestDuration prometheus.Histogram

	PublishErrors prometheus.Counter
}

// NewMetrics creates and registers all ingestion metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		UploadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "airq_ingest",
			Name:      "uploads_total",
			Help:      "Total CSV uploads received.",
		}),
		UploadRejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airq_ingest",
			Name:      "upload_rejects_total",
			Help:      "Uploads rejected before batch submission, by reason.",
		}, []string{"reason"}),
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "airq_ingest",
			Name:      "records_parsed_total",
			Help:      "Total CSV rows normalized into readings.",
		}),
		RecordsRetained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "airq_ingest",
			Name:      "records_retained_total",
			Help:      "Readings retained after date-range filtering.",
		}),
		RecordsSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "airq_ingest",
			Name:      "records_succeeded_total",
			Help:      "Readings accepted by the storage collaborator.",
		}),
		RecordsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "airq_ingest",
			Name:      "records_failed_total",
			Help:      "Readings in batches the storage collaborator rejected.",
		}),
		DatetimeFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "airq_ingest",
			Name:      "datetime_fallbacks_total",
			Help:      "Readings stamped with ingestion time because their datetime was unparseable.",
		}),
		Batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "airq_ingest",
			Name:      "batches_total",
			Help:      "Batch submissions by outcome.",
		}, []string{"outcome"}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "airq_ingest",
			Name:      "batch_size",
			Help:      "Number of readings per submitted batch.",
			Buckets:   []float64{1, 10, 50, 100, 250, 500},
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "airq_ingest",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of a complete upload ingestion.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "airq_ingest",
			Name:      "publish_errors_total",
			Help:      "Failed publishes of accepted readings.",
		}),
	}

	prometheus.MustRegister(
		m.UploadsTotal,
		m.UploadRejects,
		m.RecordsParsed,
		m.RecordsRetained,
		m.RecordsSucceeded,
		m.RecordsFailed,
		m.DatetimeFallbacks,
		m.Batches,
		m.BatchSize,
		m.IngestDuration,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		UploadsTotal:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "airq_ingest", Name: "uploads_total"}),
		UploadRejects:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "airq_ingest", Name: "upload_rejects_total"}, []string{"reason"}),
		RecordsParsed:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "airq_ingest", Name: "records_parsed_total"}),
		RecordsRetained:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "airq_ingest", Name: "records_retained_total"}),
		RecordsSucceeded:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "airq_ingest", Name: "records_succeeded_total"}),
		RecordsFailed:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "airq_ingest", Name: "records_failed_total"}),
		DatetimeFallbacks: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "airq_ingest", Name: "datetime_fallbacks_total"}),
		Batches:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "airq_ingest", Name: "batches_total"}, []string{"outcome"}),
		BatchSize:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "airq_ingest", Name: "batch_size"}),
		IngestDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "airq_ingest", Name: "ingest_duration_seconds"}),
		PublishErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "airq_ingest", Name: "publish_errors_total"}),
	}
}
