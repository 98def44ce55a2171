package game

import (
	"context"

	"github.com/nathan71370/rabbit-clicker-sub000/internal/events"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/rabbit"
)

// OfflineResult summarizes one offline reconciliation for a welcome-back
// display.
type OfflineResult struct {
	TimeAwaySeconds float64 `json:"time_away_seconds"`
	Earned          float64 `json:"earned"`
	FullRateAmount  float64 `json:"full_rate_amount"`
	Efficiency      float64 `json:"efficiency"`
}

// ReconcileOffline grants reduced-rate earnings for the time since the last
// recorded timestamp, then advances that timestamp so an immediate second
// call sees a near-zero window. Negative elapsed (clock skew) grants nothing.
func (e *Engine) ReconcileOffline(ctx context.Context) (OfflineResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, err := e.wallet.Get(ctx)
	if err != nil {
		return OfflineResult{}, err
	}

	now := e.clock.Now()
	if w.LastSeenAt.IsZero() {
		// First session: nothing to reconcile, just anchor the timestamp.
		w.LastSeenAt = now
		if err := e.wallet.Update(ctx, w); err != nil {
			return OfflineResult{}, err
		}
		return OfflineResult{}, nil
	}

	elapsed := now.Sub(w.LastSeenAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	eff := e.offlineEfficiency(ctx)
	fullRate := e.prod.Total * elapsed
	earned := fullRate * eff

	w.Add(earned)
	w.LastSeenAt = now
	if err := e.wallet.Update(ctx, w); err != nil {
		return OfflineResult{}, err
	}

	result := OfflineResult{
		TimeAwaySeconds: elapsed,
		Earned:          earned,
		FullRateAmount:  fullRate,
		Efficiency:      eff,
	}
	if earned > 0 {
		e.bus.Publish(events.Event{Type: events.TypeOfflineEarnings, At: now, Data: result})
	}
	return result, nil
}

// offlineEfficiency is the configured base fraction plus percentage-point
// bonuses from active offline abilities and the burrow_blanket upgrade,
// capped at the full live rate.
func (e *Engine) offlineEfficiency(ctx context.Context) float64 {
	eff := e.cfg.Game.OfflineEfficiency

	team, err := e.rabbits.Team(ctx)
	if err == nil {
		for _, id := range team {
			def, ok := e.rabbitDefs[id]
			if ok && def.Ability != nil && def.Ability.Kind == rabbit.AbilityOffline {
				eff += def.Ability.Value / 100
			}
		}
	}

	if owned, err := e.upgrades.Owned(ctx, "burrow_blanket"); err == nil && owned {
		if def, ok := e.upgradeDefs["burrow_blanket"]; ok {
			eff += def.Value / 100
		}
	}

	if eff > 1 {
		eff = 1
	}
	if eff < 0 {
		eff = 0
	}
	return eff
}
