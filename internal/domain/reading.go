package domain

import "time"

// Reading is the normalized form of one CSV row: a fixed set of semantic
// fields regardless of how the source export spelled its columns.
// Measurement fields are pointers so that an absent value (unparseable or
// missing column) stays distinguishable from a genuine zero reading.
type Reading struct {
	Datetime time.Time `json:"datetime"`
	SourceID string    `json:"source_id,omitempty"`

	PM25        *float64 `json:"pm25,omitempty"`
	PM10        *float64 `json:"pm10,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`

	// DatetimeInferred is true when the source row had no parseable
	// timestamp and Datetime was substituted with the ingestion wall-clock
	// time. Downstream time-series consumers must not treat inferred
	// timestamps as real sensor time.
	DatetimeInferred bool `json:"datetime_inferred,omitempty"`
}

// BatchResult records the outcome of submitting one batch to storage.
type BatchResult struct {
	BatchIndex  int    `json:"batchIndex"`
	Succeeded   bool   `json:"succeeded"`
	RecordCount int    `json:"recordCount"`
	Error       string `json:"error,omitempty"`
}

// IngestReport summarizes one upload end to end. It is always complete:
// every batch that was attempted appears in BatchResults, even when all of
// them failed.
type IngestReport struct {
	UploadID                 string        `json:"uploadId"`
	TotalParsed              int           `json:"totalParsed"`
	TotalRetainedAfterFilter int           `json:"totalRetainedAfterFilter"`
	TotalSucceeded           int           `json:"totalSucceeded"`
	TotalFailed              int           `json:"totalFailed"`
	DatetimeFallbacks        int           `json:"datetimeFallbacks"`
	BatchResults             []BatchResult `json:"batchResults"`
}
