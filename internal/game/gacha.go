package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nathan71370/rabbit-clicker-sub000/internal/crate"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/events"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/rabbit"
)

// OpenCrateResult reports one resolved crate opening.
type OpenCrateResult struct {
	Drop          crate.Drop    `json:"drop"`
	Rabbit        rabbit.Rabbit `json:"rabbit"`
	IsDuplicate   bool          `json:"is_duplicate"`
	Compensation  float64       `json:"compensation"`
	PityTriggered bool          `json:"pity_triggered"`
	CostPaid      float64       `json:"cost_paid"`
}

// OpenCrate buys and resolves one crate: pity check first, then a cumulative
// walk over the drop table, then rabbit selection with a bias toward unowned
// pulls. Duplicates convert to carrot compensation instead of a second copy.
func (e *Engine) OpenCrate(ctx context.Context, crateID string) (OpenCrateResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	def, ok := e.crateDefs[crateID]
	if !ok {
		return OpenCrateResult{}, fmt.Errorf("crate %s: %w", crateID, ErrUnknownID)
	}

	w, err := e.wallet.Get(ctx)
	if err != nil {
		return OpenCrateResult{}, err
	}
	switch def.Currency {
	case crate.CurrencyGolden:
		if !w.SpendGolden(def.Cost) {
			return OpenCrateResult{}, ErrInsufficientFunds
		}
	default:
		if !w.Spend(def.Cost) {
			return OpenCrateResult{}, ErrInsufficientFunds
		}
	}
	if err := e.wallet.Update(ctx, w); err != nil {
		return OpenCrateResult{}, err
	}

	st, err := e.gacha.Get(ctx)
	if err != nil {
		return OpenCrateResult{}, err
	}

	rarity, pity := e.rollRarity(def, st)
	picked := e.pickRabbit(ctx, rarity)

	_, isDup, err := e.rabbits.Get(ctx, picked.ID)
	if err != nil {
		return OpenCrateResult{}, err
	}

	now := e.clock.Now()
	comp := 0.0
	if isDup {
		comp = e.cfg.Gacha.Compensation[string(rarity)]
		if err := e.addCarrotsLocked(ctx, comp); err != nil {
			return OpenCrateResult{}, err
		}
	} else {
		err := e.rabbits.Add(ctx, rabbit.Owned{
			RabbitID:   picked.ID,
			Level:      1,
			Experience: 0,
			ObtainedAt: now,
		})
		if err != nil {
			return OpenCrateResult{}, err
		}
	}

	drop := crate.Drop{
		ID:           uuid.NewString(),
		CrateID:      crateID,
		RabbitID:     picked.ID,
		Rarity:       rarity,
		Duplicate:    isDup,
		Compensation: comp,
		At:           now,
	}
	st.RecordDrop(drop, e.cfg.Gacha.HistoryCap)
	if err := e.gacha.Update(ctx, st); err != nil {
		return OpenCrateResult{}, err
	}

	if err := e.recompute(ctx); err != nil {
		return OpenCrateResult{}, err
	}

	result := OpenCrateResult{
		Drop:          drop,
		Rabbit:        picked,
		IsDuplicate:   isDup,
		Compensation:  comp,
		PityTriggered: pity,
		CostPaid:      def.Cost,
	}
	e.bus.Publish(events.Event{Type: events.TypeCrateDrop, At: now, Data: result})
	return result, nil
}

// rollRarity resolves the drop tier. A pity counter one short of its
// threshold makes this the guaranteed draw; highest guarantee wins. Otherwise
// a uniform draw walks the table from common to mythical, falling back to
// common if the table undershoots 1.0.
func (e *Engine) rollRarity(def crate.Crate, st crate.State) (rabbit.Rarity, bool) {
	switch {
	case st.SinceMythical+1 >= e.cfg.Gacha.PityMythical:
		return rabbit.Mythical, true
	case st.SinceLegendary+1 >= e.cfg.Gacha.PityLegendary:
		return rabbit.Legendary, true
	case st.SinceEpic+1 >= e.cfg.Gacha.PityEpic:
		return rabbit.Epic, true
	}

	roll := e.rng.Float64()
	acc := 0.0
	for _, tier := range rabbit.Tiers {
		acc += def.Rates[tier]
		if roll < acc {
			return tier, false
		}
	}
	return rabbit.Common, false
}

// pickRabbit selects a definition of the rolled rarity, preferring unowned
// rabbits with the configured bias (plus any drop-luck bonuses) when one
// exists.
func (e *Engine) pickRabbit(ctx context.Context, rarity rabbit.Rarity) rabbit.Rabbit {
	var pool, unowned []rabbit.Rabbit
	for _, def := range e.rabbitDefs {
		if def.Rarity != rarity {
			continue
		}
		pool = append(pool, def)
		_, owned, err := e.rabbits.Get(ctx, def.ID)
		if err == nil && !owned {
			unowned = append(unowned, def)
		}
	}
	sortRabbits(pool)
	sortRabbits(unowned)

	if len(pool) == 0 {
		// Degenerate catalog; fall back to any common so a paid crate always
		// yields something.
		for _, def := range e.rabbitDefs {
			if def.Rarity == rabbit.Common {
				pool = append(pool, def)
			}
		}
		sortRabbits(pool)
	}

	bias := e.cfg.Gacha.UnownedBias + e.dropLuck(ctx)/100
	if bias > 0.99 {
		bias = 0.99
	}
	if len(unowned) > 0 && e.rng.Float64() < bias {
		return unowned[e.rng.IntN(len(unowned))]
	}
	return pool[e.rng.IntN(len(pool))]
}

// dropLuck sums drop-rate bonuses in percentage points from active rabbit
// abilities and special upgrades.
func (e *Engine) dropLuck(ctx context.Context) float64 {
	luck := 0.0

	team, err := e.rabbits.Team(ctx)
	if err == nil {
		for _, id := range team {
			def, ok := e.rabbitDefs[id]
			if ok && def.Ability != nil && def.Ability.Kind == rabbit.AbilityDropRate {
				luck += def.Ability.Value
			}
		}
	}

	if owned, err := e.upgrades.Owned(ctx, "lucky_clover"); err == nil && owned {
		if def, ok := e.upgradeDefs["lucky_clover"]; ok {
			luck += def.Value
		}
	}
	return luck
}

func sortRabbits(rs []rabbit.Rabbit) {
	for i := 0; i < len(rs); i++ {
		for j := i + 1; j < len(rs); j++ {
			if rs[j].ID < rs[i].ID {
				rs[i], rs[j] = rs[j], rs[i]
			}
		}
	}
}
