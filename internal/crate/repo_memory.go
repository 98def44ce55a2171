package crate

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory gacha state repository.
type MemoryRepo struct {
	mu sync.RWMutex
	s  State
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Get(ctx context.Context) (State, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := r.s
	snap.History = append([]Drop(nil), r.s.History...)
	return snap, nil
}

func (r *MemoryRepo) Update(ctx context.Context, s State) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()
	r.s = s
	return nil
}
