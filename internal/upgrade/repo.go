package upgrade

import "context"

// Repository stores which one-time upgrades the player owns.
type Repository interface {
	Owned(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]string, error)
	MarkOwned(ctx context.Context, id string) error
	// Replace swaps the whole owned set in one step (load/reset paths).
	Replace(ctx context.Context, ids []string) error
}
