package building

import "context"

// Repository stores how many of each building the player owns.
type Repository interface {
	Count(ctx context.Context, id string) (int, error)
	Counts(ctx context.Context) (map[string]int, error)
	Increment(ctx context.Context, id string) (int, error)
	// Replace swaps all counts in one step (load/reset paths).
	Replace(ctx context.Context, counts map[string]int) error
}
