// Command seed ingests a local CSV export through the same pipeline the
// upload endpoint uses and prints the resulting report as JSON. It is the
// scripted way to backfill a Supabase project from historical exports.
//
// Usage:
//
//	go run ./cmd/seed -file exports/2024-01_nodes.csv
//	go run ./cmd/seed -file exports/2024-01_nodes.csv -start-date 2024-01-01 -end-date 2024-01-31
//	go run ./cmd/seed -file exports/2024-01_nodes.csv -dry-run
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/emberline/airq-ingest-service/internal/adapter/memstore"
	"github.com/emberline/airq-ingest-service/internal/adapter/supabase"
	"github.com/emberline/airq-ingest-service/internal/config"
	"github.com/emberline/airq-ingest-service/internal/domain"
	"github.com/emberline/airq-ingest-service/internal/observability"
	"github.com/emberline/airq-ingest-service/internal/pipeline"
	"github.com/emberline/airq-ingest-service/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	file := flag.String("file", "", "path to the CSV export to ingest")
	startDate := flag.String("start-date", "", "optional inclusive start of the date window (ISO date or datetime)")
	endDate := flag.String("end-date", "", "optional inclusive end of the date window (ISO date or datetime)")
	dryRun := flag.Bool("dry-run", false, "ingest into an in-memory store instead of the configured backend")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -file")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	window, err := domain.ParseTimeWindow(*startDate, *endDate)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg)

	var store storage.Store
	switch {
	case *dryRun:
		store = memstore.New()
		log.Println("dry run: readings will not be persisted")
	case cfg.StorageBackend() == config.BackendSupabase:
		store = supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseTable, cfg.SupabaseTimeout, logger)
	default:
		return fmt.Errorf("SUPABASE_URL is not set; use -dry-run to seed without a backend")
	}

	p := pipeline.New(store, nil, logger, observability.NewMetrics(), cfg.BatchSize)

	report, err := p.Ingest(context.Background(), string(data), window)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", *file, err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if report.TotalFailed > 0 {
		return fmt.Errorf("%d of %d readings failed", report.TotalFailed, report.TotalRetainedAfterFilter)
	}
	return nil
}
