package building

import (
	"fmt"
	"math"
)

// EffectKind tags a building's optional special effect. The set is closed so
// production code can branch exhaustively.
type EffectKind string

const (
	EffectNone EffectKind = ""
	// EffectPerRabbitSelfBoost multiplies this building's own output by
	// 1 + ownedRabbitCount × value.
	EffectPerRabbitSelfBoost EffectKind = "per_rabbit_self_boost"
	// EffectRabbitSynergy multiplies the rabbit output subtotal by
	// 1 + ownedCount × value.
	EffectRabbitSynergy EffectKind = "rabbit_synergy"
	// EffectGlobal contributes 1 + ownedCount × value to the global multiplier.
	EffectGlobal EffectKind = "global"
)

// Building is a static purchasable producer definition.
type Building struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	BaseCost    float64    `json:"base_cost"`
	Growth      float64    `json:"growth"` // geometric cost growth factor
	BaseCPS     float64    `json:"base_cps"`
	Effect      EffectKind `json:"effect,omitempty"`
	EffectValue float64    `json:"effect_value,omitempty"`
}

// CostFor returns the carrot cost of the next unit when count are already
// owned: floor(base × growth^count).
func (b Building) CostFor(count int) float64 {
	if count < 0 {
		count = 0
	}
	return math.Floor(b.BaseCost * math.Pow(b.Growth, float64(count)))
}

// Catalog is the shipped building roster, cheapest first.
var Catalog = []Building{
	{ID: "carrot_patch", Name: "Carrot Patch", BaseCost: 15, Growth: 1.15, BaseCPS: 0.1},
	{ID: "burrow", Name: "Burrow", BaseCost: 100, Growth: 1.15, BaseCPS: 1},
	{ID: "carrot_silo", Name: "Carrot Silo", BaseCost: 1000, Growth: 1.15, BaseCPS: 10},
	{ID: "warren", Name: "Warren", BaseCost: 12000, Growth: 1.15, BaseCPS: 47, Effect: EffectPerRabbitSelfBoost, EffectValue: 0.05},
	{ID: "carrot_factory", Name: "Carrot Factory", BaseCost: 130000, Growth: 1.15, BaseCPS: 260},
	{ID: "breeding_den", Name: "Breeding Den", BaseCost: 1400000, Growth: 1.15, BaseCPS: 1400, Effect: EffectRabbitSynergy, EffectValue: 0.02},
	{ID: "carrot_temple", Name: "Carrot Temple", BaseCost: 20000000, Growth: 1.15, BaseCPS: 7800},
	{ID: "moon_garden", Name: "Moon Garden", BaseCost: 330000000, Growth: 1.15, BaseCPS: 44000, Effect: EffectGlobal, EffectValue: 0.01},
}

var catalogByID = buildIndex(Catalog)

func buildIndex(bs []Building) map[string]Building {
	idx := make(map[string]Building, len(bs))
	for _, b := range bs {
		if b.ID == "" {
			panic("building catalog: empty id")
		}
		if b.BaseCost <= 0 || b.Growth < 1 {
			panic(fmt.Sprintf("building catalog: %s has invalid cost curve", b.ID))
		}
		if _, dup := idx[b.ID]; dup {
			panic(fmt.Sprintf("building catalog: duplicate id %s", b.ID))
		}
		idx[b.ID] = b
	}
	return idx
}

// ByID looks up a catalog definition.
func ByID(id string) (Building, bool) {
	b, ok := catalogByID[id]
	return b, ok
}
