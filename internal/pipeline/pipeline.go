// Package pipeline orchestrates one CSV upload end to end:
// tokenize, validate the header, normalize rows, apply the optional date
// window, and submit the survivors to storage in bounded batches.
//
// Fatal errors (empty input, malformed or unrecognized header) abort before
// any batch is submitted and propagate to the caller with no report. Every
// error after that point is recorded per batch; the caller always receives a
// complete IngestReport, even when every batch failed. Batches are submitted
// strictly sequentially so the report is deterministic; batches already
// committed stay committed if the caller goes away mid-upload.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/emberline/airq-ingest-service/internal/domain"
	"github.com/emberline/airq-ingest-service/internal/observability"
	"github.com/emberline/airq-ingest-service/internal/storage"
)

// Publisher forwards accepted readings to downstream consumers. Publishing
// is best-effort: errors are logged and counted, never failing the upload.
type Publisher interface {
	PublishAccepted(ctx context.Context, readings []domain.Reading) error
}

// Pipeline ingests CSV uploads into the storage collaborator.
type Pipeline struct {
	store     storage.BatchInserter
	publisher Publisher // nil disables publishing
	logger    *slog.Logger
	metrics   *observability.Metrics
	batchSize int
}

// New creates a Pipeline. Pass a nil publisher to disable the accepted-
// readings feed.
func New(store storage.BatchInserter, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
	}
}

// Ingest processes one uploaded CSV. The window may be zero (no filtering).
// It returns a fatal error for inputs that never reach batch submission;
// otherwise the report is complete and err is nil.
func (p *Pipeline) Ingest(ctx context.Context, csvText string, window domain.TimeWindow) (*domain.IngestReport, error) {
	uploadID := uuid.NewString()
	start := time.Now()
	p.metrics.UploadsTotal.Inc()

	rows, err := domain.Tokenize(csvText)
	if err != nil {
		return nil, p.reject(uploadID, err)
	}

	header := rows[0]
	if err := domain.ValidateHeader(header); err != nil {
		return nil, p.reject(uploadID, err)
	}

	normalizer := domain.NewNormalizer(header)
	readings := make([]domain.Reading, 0, len(rows)-1)
	fallbacks := 0
	for _, row := range rows[1:] {
		r := normalizer.Normalize(row)
		if r.DatetimeInferred {
			fallbacks++
		}
		readings = append(readings, r)
	}

	retained := readings
	if !window.IsZero() {
		retained = make([]domain.Reading, 0, len(readings))
		for _, r := range readings {
			if window.Contains(r) {
				retained = append(retained, r)
			}
		}
	}

	report := &domain.IngestReport{
		UploadID:                 uploadID,
		TotalParsed:              len(readings),
		TotalRetainedAfterFilter: len(retained),
		DatetimeFallbacks:        fallbacks,
		BatchResults:             []domain.BatchResult{},
	}

	p.metrics.RecordsParsed.Add(float64(len(readings)))
	p.metrics.RecordsRetained.Add(float64(len(retained)))
	if fallbacks > 0 {
		p.metrics.DatetimeFallbacks.Add(float64(fallbacks))
		p.logger.Warn("substituted ingestion time for unparseable datetimes",
			"upload_id", uploadID, "count", fallbacks)
	}

	for i := 0; i*p.batchSize < len(retained); i++ {
		lo := i * p.batchSize
		hi := min(lo+p.batchSize, len(retained))
		p.submitBatch(ctx, uploadID, i, retained[lo:hi], report)
	}

	p.metrics.RecordsSucceeded.Add(float64(report.TotalSucceeded))
	p.metrics.RecordsFailed.Add(float64(report.TotalFailed))
	p.metrics.IngestDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("upload ingested",
		"upload_id", uploadID,
		"parsed", report.TotalParsed,
		"retained", report.TotalRetainedAfterFilter,
		"succeeded", report.TotalSucceeded,
		"failed", report.TotalFailed,
		"batches", len(report.BatchResults),
	)
	return report, nil
}

// submitBatch attempts one bulk insert and records its outcome. A failed
// batch never aborts the remaining ones.
func (p *Pipeline) submitBatch(ctx context.Context, uploadID string, index int, batch []domain.Reading, report *domain.IngestReport) {
	p.metrics.BatchSize.Observe(float64(len(batch)))

	inserted, err := p.store.InsertBatch(ctx, batch)
	if err != nil {
		outcome := "error"
		var mismatch *storage.SchemaMismatchError
		if errors.As(err, &mismatch) {
			outcome = "schema_mismatch"
			p.logger.Error("storage rejected batch: column mismatch",
				"upload_id", uploadID, "batch", index, "fields", mismatch.Fields)
		} else {
			p.logger.Error("batch submission failed",
				"upload_id", uploadID, "batch", index, "error", err)
		}
		p.metrics.Batches.WithLabelValues(outcome).Inc()

		report.TotalFailed += len(batch)
		report.BatchResults = append(report.BatchResults, domain.BatchResult{
			BatchIndex:  index,
			Succeeded:   false,
			RecordCount: len(batch),
			Error:       err.Error(),
		})
		return
	}

	p.metrics.Batches.WithLabelValues("success").Inc()
	report.TotalSucceeded += inserted
	report.BatchResults = append(report.BatchResults, domain.BatchResult{
		BatchIndex:  index,
		Succeeded:   true,
		RecordCount: inserted,
	})

	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishAccepted(ctx, batch); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("publish accepted readings failed",
			"upload_id", uploadID, "batch", index, "error", err)
	}
}

// reject counts a fatal rejection and passes the error through.
func (p *Pipeline) reject(uploadID string, err error) error {
	p.metrics.UploadRejects.WithLabelValues(rejectReason(err)).Inc()
	p.logger.Warn("upload rejected", "upload_id", uploadID, "error", err)
	return err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, domain.ErrMalformedCSV):
		return "malformed_csv"
	case errors.Is(err, domain.ErrUnrecognizedSchema):
		return "unrecognized_schema"
	default:
		return "other"
	}
}
