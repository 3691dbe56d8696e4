package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/emberline/airq-ingest-service/internal/adapter/http"
	kafkaadapter "github.com/emberline/airq-ingest-service/internal/adapter/kafka"
	"github.com/emberline/airq-ingest-service/internal/adapter/memstore"
	"github.com/emberline/airq-ingest-service/internal/adapter/supabase"
	"github.com/emberline/airq-ingest-service/internal/config"
	"github.com/emberline/airq-ingest-service/internal/observability"
	"github.com/emberline/airq-ingest-service/internal/pipeline"
	"github.com/emberline/airq-ingest-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Select the storage collaborator once at startup.
	var store storage.Store
	switch cfg.StorageBackend() {
	case config.BackendSupabase:
		store = supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseTable, cfg.SupabaseTimeout, logger)
		logger.Info("using supabase storage", "table", cfg.SupabaseTable)
	default:
		store = memstore.New()
		logger.Warn("SUPABASE_URL not set, using in-memory storage")
	}

	// Accepted-readings feed (feature-flagged via KAFKA_ENABLED).
	var publisher pipeline.Publisher
	var publisherCloser *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		p := kafkaadapter.NewPublisher(cfg, logger)
		publisher = p
		publisherCloser = p
		logger.Info("accepted-readings feed enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("accepted-readings feed disabled")
	}

	p := pipeline.New(store, publisher, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, store, cfg.MaxUploadBytes, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisherCloser != nil {
		if err := publisherCloser.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
