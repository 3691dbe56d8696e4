// Package memstore is the in-memory storage collaborator, used when no
// Supabase project is configured (local development, tests, seed dry runs).
// The backend is chosen once at startup; nothing branches on it per call.
package memstore

import (
	"context"
	"sync"

	"github.com/emberline/airq-ingest-service/internal/domain"
)

// Store implements storage.Store with a mutex-guarded slice.
type Store struct {
	mu       sync.Mutex
	readings []domain.Reading
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// InsertBatch appends the batch. It never fails.
func (s *Store) InsertBatch(_ context.Context, readings []domain.Reading) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, readings...)
	return len(readings), nil
}

// Ping always succeeds; the store is in-process.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Len reports how many readings have been stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.readings)
}

// Readings returns a copy of everything stored, in insertion order.
func (s *Store) Readings() []domain.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Reading, len(s.readings))
	copy(out, s.readings)
	return out
}
