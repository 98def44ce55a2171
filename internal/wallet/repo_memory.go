package wallet

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory wallet repository.
type MemoryRepo struct {
	mu sync.RWMutex
	w  Wallet
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Get(ctx context.Context) (Wallet, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.w, nil
}

func (r *MemoryRepo) Update(ctx context.Context, w Wallet) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()
	r.w = w
	return nil
}
