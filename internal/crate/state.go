package crate

import (
	"context"

	"github.com/nathan71370/rabbit-clicker-sub000/internal/rabbit"
)

// State holds the pity counters and recent drop history. Each counter tracks
// crates opened since the last drop at or above its tier.
type State struct {
	SinceEpic      int    `json:"since_epic"`
	SinceLegendary int    `json:"since_legendary"`
	SinceMythical  int    `json:"since_mythical"`
	History        []Drop `json:"history,omitempty"`
}

// RecordDrop advances the pity counters for one opening and prepends the drop
// to history, trimming to cap. A drop of tier T zeroes every counter whose
// guarantee tier is at or below T; higher counters keep counting.
func (s *State) RecordDrop(d Drop, cap int) {
	s.SinceEpic++
	s.SinceLegendary++
	s.SinceMythical++

	if d.Rarity.AtLeast(rabbit.Epic) {
		s.SinceEpic = 0
	}
	if d.Rarity.AtLeast(rabbit.Legendary) {
		s.SinceLegendary = 0
	}
	if d.Rarity.AtLeast(rabbit.Mythical) {
		s.SinceMythical = 0
	}

	s.History = append([]Drop{d}, s.History...)
	if cap > 0 && len(s.History) > cap {
		s.History = s.History[:cap]
	}
}

// ResetPity zeroes the counters, keeping history.
func (s *State) ResetPity() {
	s.SinceEpic = 0
	s.SinceLegendary = 0
	s.SinceMythical = 0
}

// Repository persists gacha state.
type Repository interface {
	Get(ctx context.Context) (State, error)
	Update(ctx context.Context, s State) error
}
