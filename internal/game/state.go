package game

import (
	"context"
	"sort"

	"github.com/nathan71370/rabbit-clicker-sub000/internal/building"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/crate"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/prestige"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/rabbit"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/upgrade"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/wallet"
)

// StateView is the read model for presentation: balances, rates, and
// per-item affordability so the UI never recomputes economy values.
type StateView struct {
	Wallet     wallet.Wallet  `json:"wallet"`
	Production Production     `json:"production"`
	Buildings  []BuildingView `json:"buildings"`
	Upgrades   []UpgradeView  `json:"upgrades"`
	Crates     []CrateView    `json:"crates"`
	Team       []string       `json:"team"`
	Collection []OwnedView    `json:"collection"`
	Pity       PityView       `json:"pity"`
	History    []crate.Drop   `json:"history"`
	Prestige   PrestigeView   `json:"prestige"`
}

type BuildingView struct {
	building.Building
	Count      int     `json:"count"`
	NextCost   float64 `json:"next_cost"`
	Affordable bool    `json:"affordable"`
}

type UpgradeView struct {
	upgrade.Upgrade
	Owned      bool `json:"owned"`
	Unlocked   bool `json:"unlocked"` // prerequisites met
	Affordable bool `json:"affordable"`
}

type CrateView struct {
	crate.Crate
	Affordable bool `json:"affordable"`
}

type OwnedView struct {
	rabbit.Rabbit
	Level      int     `json:"level"`
	Experience float64 `json:"experience"`
	OnTeam     bool    `json:"on_team"`
}

type PityView struct {
	SinceEpic      int `json:"since_epic"`
	SinceLegendary int `json:"since_legendary"`
	SinceMythical  int `json:"since_mythical"`
}

type PrestigeView struct {
	prestige.State
	Eligible   bool    `json:"eligible"`
	NextReward int64   `json:"next_reward"`
	Multiplier float64 `json:"multiplier"`
	Threshold  float64 `json:"threshold"`
}

// State assembles the full read model in one locked pass so every value in
// the snapshot is mutually consistent.
func (e *Engine) State(ctx context.Context) (StateView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, err := e.wallet.Get(ctx)
	if err != nil {
		return StateView{}, err
	}
	counts, err := e.buildings.Counts(ctx)
	if err != nil {
		return StateView{}, err
	}
	team, err := e.rabbits.Team(ctx)
	if err != nil {
		return StateView{}, err
	}
	owned, err := e.rabbits.List(ctx)
	if err != nil {
		return StateView{}, err
	}
	gachaState, err := e.gacha.Get(ctx)
	if err != nil {
		return StateView{}, err
	}
	ps, err := e.prestige.Get(ctx)
	if err != nil {
		return StateView{}, err
	}

	view := StateView{
		Wallet:     w,
		Production: e.prod,
		Team:       team,
		History:    gachaState.History,
		Pity: PityView{
			SinceEpic:      gachaState.SinceEpic,
			SinceLegendary: gachaState.SinceLegendary,
			SinceMythical:  gachaState.SinceMythical,
		},
		Prestige: PrestigeView{
			State:      ps,
			Eligible:   w.LifetimeCarrots >= e.cfg.Prestige.Threshold,
			NextReward: e.rewardFor(w.LifetimeCarrots),
			Multiplier: ps.Multiplier(),
			Threshold:  e.cfg.Prestige.Threshold,
		},
	}

	for _, def := range sortedBuildings(e.buildingDefs) {
		cost := def.CostFor(counts[def.ID])
		view.Buildings = append(view.Buildings, BuildingView{
			Building:   def,
			Count:      counts[def.ID],
			NextCost:   cost,
			Affordable: w.Has(cost),
		})
	}

	for _, def := range sortedUpgrades(e.upgradeDefs) {
		has, err := e.upgrades.Owned(ctx, def.ID)
		if err != nil {
			return StateView{}, err
		}
		unlocked := true
		for _, req := range def.Requires {
			reqOwned, err := e.upgrades.Owned(ctx, req)
			if err != nil {
				return StateView{}, err
			}
			if !reqOwned {
				unlocked = false
				break
			}
		}
		view.Upgrades = append(view.Upgrades, UpgradeView{
			Upgrade:    def,
			Owned:      has,
			Unlocked:   unlocked,
			Affordable: w.Has(def.Cost),
		})
	}

	for _, def := range sortedCrates(e.crateDefs) {
		affordable := w.Has(def.Cost)
		if def.Currency == crate.CurrencyGolden {
			affordable = w.GoldenCarrots >= def.Cost
		}
		view.Crates = append(view.Crates, CrateView{Crate: def, Affordable: affordable})
	}

	onTeam := make(map[string]bool, len(team))
	for _, id := range team {
		onTeam[id] = true
	}
	for _, o := range owned {
		def, ok := e.rabbitDefs[o.RabbitID]
		if !ok {
			continue
		}
		view.Collection = append(view.Collection, OwnedView{
			Rabbit:     def,
			Level:      o.Level,
			Experience: o.Experience,
			OnTeam:     onTeam[o.RabbitID],
		})
	}

	return view, nil
}

func sortedBuildings(defs map[string]building.Building) []building.Building {
	out := make([]building.Building, 0, len(defs))
	for _, d := range defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BaseCost < out[j].BaseCost })
	return out
}

func sortedUpgrades(defs map[string]upgrade.Upgrade) []upgrade.Upgrade {
	out := make([]upgrade.Upgrade, 0, len(defs))
	for _, d := range defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })
	return out
}

func sortedCrates(defs map[string]crate.Crate) []crate.Crate {
	out := make([]crate.Crate, 0, len(defs))
	for _, d := range defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
