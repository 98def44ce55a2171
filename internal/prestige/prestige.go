package prestige

import "context"

// State is the prestige mechanism's own currency: permanent bonus points and
// how many times the player has prestiged. Prestiging never resets either
// field; only a full game reset does.
type State struct {
	BonusPoints int64 `json:"bonus_points"`
	Count       int64 `json:"count"`
}

// Multiplier is the permanent production factor earned from bonus points:
// +10% per point.
func (s State) Multiplier() float64 {
	return 1 + 0.10*float64(s.BonusPoints)
}

// Repository persists prestige state.
type Repository interface {
	Get(ctx context.Context) (State, error)
	Update(ctx context.Context, s State) error
}
