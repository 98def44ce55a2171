package rabbit

import "context"

// Repository stores the player's collection and active team.
type Repository interface {
	Get(ctx context.Context, id string) (Owned, bool, error)
	List(ctx context.Context) ([]Owned, error)
	Count(ctx context.Context) (int, error)
	Add(ctx context.Context, o Owned) error
	Update(ctx context.Context, o Owned) error
	Team(ctx context.Context) ([]string, error)
	SetTeam(ctx context.Context, ids []string) error
	// Replace swaps the whole collection and team in one step (load/reset paths).
	Replace(ctx context.Context, owned []Owned, team []string) error
}
