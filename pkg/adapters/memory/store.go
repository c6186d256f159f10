package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/weft/pkg/domain"
)

// Store implements ports.RunStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.RunSnapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.RunSnapshot),
	}
}

// Save keeps a copy of the snapshot, so later mutation by the caller is not visible.
func (s *Store) Save(ctx context.Context, snapshot *domain.RunSnapshot) error {
	if snapshot == nil || snapshot.RunID == "" {
		return domain.ErrEmptyRunID
	}
	copied := snapshot.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[snapshot.RunID] = copied
	return nil
}

// Load returns a copy of the stored snapshot.
func (s *Store) Load(ctx context.Context, runID string) (*domain.RunSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return snap.Clone(), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}

// List returns stored run ids, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]string, 0, len(s.data))
	for id := range s.data {
		runs = append(runs, id)
	}
	slices.Sort(runs)
	return runs, nil
}
