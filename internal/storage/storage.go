// Package storage defines the contract between the ingestion pipeline and
// its storage collaborator. The pipeline needs exactly one write operation
// (bulk insert) plus a reachability probe for readiness; transactions and
// read-after-write guarantees are deliberately not part of the contract.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/emberline/airq-ingest-service/internal/domain"
)

// BatchInserter persists one batch of normalized readings.
// InsertBatch returns the number of readings accepted. Implementations own
// their timeout policy; the pipeline adds none of its own.
type BatchInserter interface {
	InsertBatch(ctx context.Context, readings []domain.Reading) (int, error)
}

// Pinger probes whether the collaborator is reachable. Used by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store is the full collaborator surface the service wires at startup.
type Store interface {
	BatchInserter
	Pinger
}

// SchemaMismatchError reports that the collaborator rejected a batch because
// one or more column names did not match its table. Carrying the offending
// fields lets callers distinguish a data problem from an infrastructure one.
type SchemaMismatchError struct {
	Fields  []string
	Message string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch on fields [%s]: %s", strings.Join(e.Fields, ", "), e.Message)
}
