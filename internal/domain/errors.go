package domain

import "errors"

// Fatal ingestion errors. These abort the upload before any batch is
// submitted; everything past header validation is reported per batch
// instead of raised.
var (
	// ErrEmptyInput means no CSV content was supplied.
	ErrEmptyInput = errors.New("empty input: no CSV content supplied")

	// ErrMalformedCSV means the header row has fewer than two columns.
	ErrMalformedCSV = errors.New("malformed csv: expected at least 2 header columns")

	// ErrUnrecognizedSchema means no header column matched any known
	// air-quality marker. The gate is heuristic; callers may surface it as
	// recoverable and let the user re-check the file.
	ErrUnrecognizedSchema = errors.New("unrecognized schema: no air-quality columns found in header")
)
