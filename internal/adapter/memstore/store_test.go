package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberline/airq-ingest-service/internal/domain"
)

func TestStore_InsertBatch(t *testing.T) {
	s := New()

	n, err := s.InsertBatch(context.Background(), []domain.Reading{
		{Datetime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), SourceID: "node-01"},
		{Datetime: time.Date(2024, 1, 1, 0, 10, 0, 0, time.UTC), SourceID: "node-02"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Len())

	got := s.Readings()
	require.Len(t, got, 2)
	assert.Equal(t, "node-01", got[0].SourceID)
}

func TestStore_Ping(t *testing.T) {
	assert.NoError(t, New().Ping(context.Background()))
}

func TestStore_ConcurrentInserts(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := s.InsertBatch(context.Background(), []domain.Reading{{SourceID: "n"}})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 400, s.Len())
}
