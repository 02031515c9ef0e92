package store

import (
	"context"
	"sync"

	"github.com/geekskai/exchange-rate-service/internal/models"
)

// MemoryStore holds the snapshot in process memory. Used in tests and as a
// no-persistence deployment mode.
type MemoryStore struct {
	mu   sync.RWMutex
	snap *models.RateSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Read(ctx context.Context) (*models.RateSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return nil, ErrSnapshotNotFound
	}
	snap := *s.snap
	return &snap, nil
}

func (s *MemoryStore) Write(ctx context.Context, snap *models.RateSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *snap
	s.snap = &copied
	return nil
}
