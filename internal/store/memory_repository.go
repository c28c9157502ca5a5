package store

import (
	"context"
	"sync"
)

const memoryCapacity = 1000

type memoryRepository struct {
	mu      sync.RWMutex
	entries []Activity
}

// NewMemoryRepository keeps the most recent activity in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{entries: make([]Activity, 0, 64)}
}

func (r *memoryRepository) Record(_ context.Context, a Activity) error {
	a = withDefaults(a)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, a)
	if len(r.entries) > memoryCapacity {
		r.entries = append(r.entries[:0:0], r.entries[len(r.entries)-memoryCapacity:]...)
	}
	return nil
}

func (r *memoryRepository) Recent(_ context.Context, limit int) ([]Activity, error) {
	limit = clampLimit(limit)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]Activity, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
