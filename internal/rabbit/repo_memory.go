package rabbit

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	owned map[string]Owned
	team  []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		owned: make(map[string]Owned),
	}
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Owned, bool, error) {
	_ = ctx

	r.mu.RLock()
	o, ok := r.owned[id]
	r.mu.RUnlock()

	return o, ok, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Owned, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Owned, 0, len(r.owned))
	for _, o := range r.owned {
		out = append(out, o)
	}
	// Stable order for display and serialization.
	sort.Slice(out, func(i, j int) bool { return out[i].RabbitID < out[j].RabbitID })
	return out, nil
}

func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.owned), nil
}

func (r *MemoryRepo) Add(ctx context.Context, o Owned) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.owned[o.RabbitID]; exists {
		return fmt.Errorf("rabbit already owned: %s", o.RabbitID)
	}
	r.owned[o.RabbitID] = o
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, o Owned) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.owned[o.RabbitID]; !exists {
		return fmt.Errorf("rabbit not owned: %s", o.RabbitID)
	}
	r.owned[o.RabbitID] = o
	return nil
}

func (r *MemoryRepo) Team(ctx context.Context) ([]string, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.team))
	copy(out, r.team)
	return out, nil
}

func (r *MemoryRepo) SetTeam(ctx context.Context, ids []string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]string, len(ids))
	copy(next, ids)
	r.team = next
	return nil
}

func (r *MemoryRepo) Replace(ctx context.Context, owned []Owned, team []string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]Owned, len(owned))
	for _, o := range owned {
		next[o.RabbitID] = o
	}
	r.owned = next
	r.team = append([]string(nil), team...)
	return nil
}
