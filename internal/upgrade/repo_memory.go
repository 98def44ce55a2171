package upgrade

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	owned map[string]bool
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		owned: make(map[string]bool),
	}
}

func (r *MemoryRepo) Owned(ctx context.Context, id string) (bool, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.owned[id], nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]string, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.owned))
	for id := range r.owned {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (r *MemoryRepo) MarkOwned(ctx context.Context, id string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	r.owned[id] = true
	return nil
}

func (r *MemoryRepo) Replace(ctx context.Context, ids []string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]bool, len(ids))
	for _, id := range ids {
		next[id] = true
	}
	r.owned = next
	return nil
}
