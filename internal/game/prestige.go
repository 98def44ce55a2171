package game

import (
	"context"
	"math"

	"github.com/nathan71370/rabbit-clicker-sub000/internal/events"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/rabbit"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/wallet"
)

// KeptRarity is the lowest tier that survives a prestige reset.
const KeptRarity = rabbit.Legendary

// PrestigeResult reports one completed prestige for UI consumption.
type PrestigeResult struct {
	PointsEarned   int64    `json:"points_earned"`
	TotalPoints    int64    `json:"total_points"`
	PrestigeCount  int64    `json:"prestige_count"`
	MilestoneGrant float64  `json:"milestone_grant,omitempty"`
	NewMultiplier  float64  `json:"new_multiplier"`
	KeptRabbits    []string `json:"kept_rabbits"`
	LostRabbits    []string `json:"lost_rabbits"`
}

// CanPrestige reports whether this run's lifetime earnings meet the
// threshold.
func (e *Engine) CanPrestige(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, err := e.wallet.Get(ctx)
	if err != nil {
		return false, err
	}
	return w.LifetimeCarrots >= e.cfg.Prestige.Threshold, nil
}

// CalculateReward returns the bonus points a prestige would grant right now:
// floor(sqrt(lifetime / threshold)), zero below the threshold.
func (e *Engine) CalculateReward(ctx context.Context) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, err := e.wallet.Get(ctx)
	if err != nil {
		return 0, err
	}
	return e.rewardFor(w.LifetimeCarrots), nil
}

func (e *Engine) rewardFor(lifetime float64) int64 {
	if lifetime < e.cfg.Prestige.Threshold {
		return 0
	}
	return int64(math.Floor(math.Sqrt(lifetime / e.cfg.Prestige.Threshold)))
}

// PerformPrestige converts the current run into permanent bonus points and
// resets run state. Golden carrots, prestige state, and rabbits at or above
// KeptRarity survive; kept rabbits restart at level 1, off the team.
func (e *Engine) PerformPrestige(ctx context.Context) (PrestigeResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, err := e.wallet.Get(ctx)
	if err != nil {
		return PrestigeResult{}, err
	}
	if w.LifetimeCarrots < e.cfg.Prestige.Threshold {
		return PrestigeResult{}, ErrNotEligible
	}
	reward := e.rewardFor(w.LifetimeCarrots)
	if reward <= 0 {
		// Unreachable past the eligibility gate, but guarded anyway.
		return PrestigeResult{}, ErrNotEligible
	}

	ps, err := e.prestige.Get(ctx)
	if err != nil {
		return PrestigeResult{}, err
	}
	ps.BonusPoints += reward
	ps.Count++
	if err := e.prestige.Update(ctx, ps); err != nil {
		return PrestigeResult{}, err
	}

	grant := e.cfg.Prestige.Milestones[ps.Count]

	// Partition the collection; survivors restart fresh.
	ownedAll, err := e.rabbits.List(ctx)
	if err != nil {
		return PrestigeResult{}, err
	}
	now := e.clock.Now()
	var kept []rabbit.Owned
	var keptIDs, lostIDs []string
	for _, o := range ownedAll {
		def, ok := e.rabbitDefs[o.RabbitID]
		if ok && def.Rarity.AtLeast(KeptRarity) {
			kept = append(kept, rabbit.Owned{
				RabbitID:   o.RabbitID,
				Level:      1,
				Experience: 0,
				ObtainedAt: o.ObtainedAt,
			})
			keptIDs = append(keptIDs, o.RabbitID)
		} else {
			lostIDs = append(lostIDs, o.RabbitID)
		}
	}

	// Single-replacement resets, preserving only what the rules name.
	next := wallet.Wallet{
		GoldenCarrots: w.GoldenCarrots + grant,
		LastSeenAt:    now,
	}
	if err := e.wallet.Update(ctx, next); err != nil {
		return PrestigeResult{}, err
	}
	if err := e.buildings.Replace(ctx, nil); err != nil {
		return PrestigeResult{}, err
	}
	if err := e.upgrades.Replace(ctx, nil); err != nil {
		return PrestigeResult{}, err
	}
	if err := e.rabbits.Replace(ctx, kept, nil); err != nil {
		return PrestigeResult{}, err
	}
	st, err := e.gacha.Get(ctx)
	if err != nil {
		return PrestigeResult{}, err
	}
	st.ResetPity()
	if err := e.gacha.Update(ctx, st); err != nil {
		return PrestigeResult{}, err
	}

	if err := e.recompute(ctx); err != nil {
		return PrestigeResult{}, err
	}

	result := PrestigeResult{
		PointsEarned:   reward,
		TotalPoints:    ps.BonusPoints,
		PrestigeCount:  ps.Count,
		MilestoneGrant: grant,
		NewMultiplier:  ps.Multiplier(),
		KeptRabbits:    keptIDs,
		LostRabbits:    lostIDs,
	}
	e.bus.Publish(events.Event{Type: events.TypePrestige, At: now, Data: result})
	if grant > 0 {
		e.bus.Publish(events.Event{Type: events.TypeMilestone, At: now, Data: result})
	}
	return result, nil
}
