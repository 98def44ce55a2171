package building

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	counts map[string]int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		counts: make(map[string]int),
	}
}

func (r *MemoryRepo) Count(ctx context.Context, id string) (int, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counts[id], nil
}

func (r *MemoryRepo) Counts(ctx context.Context) (map[string]int, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int, len(r.counts))
	for id, n := range r.counts {
		out[id] = n
	}
	return out, nil
}

func (r *MemoryRepo) Increment(ctx context.Context, id string) (int, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	r.counts[id]++
	return r.counts[id], nil
}

func (r *MemoryRepo) Replace(ctx context.Context, counts map[string]int) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]int, len(counts))
	for id, n := range counts {
		if n > 0 {
			next[id] = n
		}
	}
	r.counts = next
	return nil
}
