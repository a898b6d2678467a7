package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/carlfriend1995-alt/OptionScope/internal/domain/model"
)

// MemoryStore keeps history for the lifetime of the process.
// Used when no history path is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]model.Deployment
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]model.Deployment)}
}

// Record implements Store.
func (s *MemoryStore) Record(ctx context.Context, d model.Deployment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[d.ID] = d
	return nil
}

// List implements Store. Ordering matches SQLiteStore: started_at DESC, then id DESC.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]model.Deployment, error) {
	if !validLimit(limit) {
		return nil, fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidLimit, limit, MaxLimit)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]model.Deployment, 0, len(s.byID))
	for _, d := range s.byID {
		out = append(out, d)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (model.Deployment, error) {
	if err := ctx.Err(); err != nil {
		return model.Deployment{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byID[id]
	if !ok {
		return model.Deployment{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
