package game

import (
	"context"
	"math"

	"github.com/nathan71370/rabbit-clicker-sub000/internal/building"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/rabbit"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/upgrade"
)

// Production is the per-second output breakdown. It is a pure function of
// store state; the engine caches the latest value and refreshes it after
// every production-affecting mutation.
type Production struct {
	FromRabbits      float64 `json:"from_rabbits"`
	FromBuildings    float64 `json:"from_buildings"`
	FromAuto         float64 `json:"from_auto"`
	Total            float64 `json:"total"`
	ClickPower       float64 `json:"click_power"`
	GlobalMultiplier float64 `json:"global_multiplier"`
}

// recompute rebuilds the cached production breakdown. Callers hold e.mu.
func (e *Engine) recompute(ctx context.Context) error {
	ownedUpgrades, err := e.upgrades.List(ctx)
	if err != nil {
		return err
	}
	team, err := e.rabbits.Team(ctx)
	if err != nil {
		return err
	}
	ownedRabbits, err := e.rabbits.Count(ctx)
	if err != nil {
		return err
	}
	counts, err := e.buildings.Counts(ctx)
	if err != nil {
		return err
	}
	prestigeState, err := e.prestige.Get(ctx)
	if err != nil {
		return err
	}

	// Click power: base 1, upgrade multipliers, then team click abilities.
	clickPower := 1.0
	autoRate := 0.0
	globalMult := 1.0
	for _, id := range ownedUpgrades {
		def, ok := e.upgradeDefs[id]
		if !ok {
			continue
		}
		switch def.Category {
		case upgrade.CategoryClick:
			clickPower *= e.safeTerm("click upgrade "+id, def.Value)
		case upgrade.CategoryAuto:
			autoRate += e.safeTerm("auto upgrade "+id, def.Value)
		case upgrade.CategoryGlobal:
			globalMult *= e.safeTerm("global upgrade "+id, def.Value)
		}
	}

	teamDefs := make([]rabbit.Rabbit, 0, len(team))
	teamOwned := make([]rabbit.Owned, 0, len(team))
	for _, id := range team {
		def, ok := e.rabbitDefs[id]
		if !ok {
			continue
		}
		o, exists, err := e.rabbits.Get(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		teamDefs = append(teamDefs, def)
		teamOwned = append(teamOwned, o)
	}

	for _, def := range teamDefs {
		if def.Ability != nil && def.Ability.Kind == rabbit.AbilityClick {
			clickPower *= 1 + e.safeTerm("click ability "+def.ID, def.Ability.Value)/100
		}
	}

	// Auto producers scale with click power.
	fromAuto := autoRate * clickPower

	// Active team output.
	fromRabbits := 0.0
	for i, def := range teamDefs {
		out := e.safeTerm("rabbit cps "+def.ID, def.BaseCPS) * teamOwned[i].OutputMultiplier()
		if def.Ability != nil && def.Ability.Kind == rabbit.AbilityOutput {
			out *= 1 + e.safeTerm("output ability "+def.ID, def.Ability.Value)/100
		}
		fromRabbits += out
	}

	// Building output plus cross-category effects.
	fromBuildings := 0.0
	synergyMult := 1.0
	for id, count := range counts {
		def, ok := e.buildingDefs[id]
		if !ok || count <= 0 {
			continue
		}
		out := e.safeTerm("building cps "+id, def.BaseCPS) * float64(count)
		switch def.Effect {
		case building.EffectPerRabbitSelfBoost:
			out *= 1 + float64(ownedRabbits)*e.safeTerm("effect "+id, def.EffectValue)
		case building.EffectRabbitSynergy:
			synergyMult *= 1 + float64(count)*e.safeTerm("effect "+id, def.EffectValue)
		case building.EffectGlobal:
			globalMult *= 1 + float64(count)*e.safeTerm("effect "+id, def.EffectValue)
		}
		fromBuildings += out
	}
	fromRabbits *= synergyMult

	globalMult *= prestigeState.Multiplier()

	fromAuto *= globalMult
	fromRabbits *= globalMult
	fromBuildings *= globalMult

	e.prod = Production{
		FromRabbits:      fromRabbits,
		FromBuildings:    fromBuildings,
		FromAuto:         fromAuto,
		Total:            fromRabbits + fromBuildings + fromAuto,
		ClickPower:       clickPower,
		GlobalMultiplier: globalMult,
	}
	return nil
}

// safeTerm fails closed: a non-finite or negative balance value contributes
// nothing instead of poisoning the whole breakdown.
func (e *Engine) safeTerm(name string, v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		e.logger.Printf("game: ignoring invalid production term %s = %v", name, v)
		return 0
	}
	return v
}
