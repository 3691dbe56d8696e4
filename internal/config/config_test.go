package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 500, cfg.BatchSize)
	assert.Equal(t, int64(25<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "sensor_readings", cfg.SupabaseTable)
	assert.Equal(t, 30*time.Second, cfg.SupabaseTimeout)
	assert.Equal(t, "accepted-readings", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, BackendMemory, cfg.StorageBackend())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "250")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "service-key")
	t.Setenv("SUPABASE_TABLE", "readings")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "readings-feed")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 250, cfg.BatchSize)
	assert.Equal(t, int64(1<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "readings", cfg.SupabaseTable)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "readings-feed", cfg.KafkaTopic)
	assert.Equal(t, BackendSupabase, cfg.StorageBackend())
}

func TestLoad_Validation(t *testing.T) {
	t.Run("supabase url without key", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://example.supabase.co")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SUPABASE_SERVICE_KEY")
	})

	t.Run("kafka enabled without brokers", func(t *testing.T) {
		t.Setenv("KAFKA_ENABLED", "true")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "KAFKA_BROKERS")
	})

	t.Run("non-positive batch size", func(t *testing.T) {
		t.Setenv("BATCH_SIZE", "0")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BATCH_SIZE")
	})

	t.Run("zero shutdown timeout", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "0s")
		_, err := Load()
		assert.Error(t, err)
	})
}
