package rabbit

import "fmt"

// Catalog is the shipped rabbit roster. Abilities and CPS values are balance
// data; the structure is validated once at package init.
var Catalog = []Rabbit{
	// Common
	{ID: "thumper", Name: "Thumper", Rarity: Common, BaseCPS: 0.5},
	{ID: "cottontail", Name: "Cottontail", Rarity: Common, BaseCPS: 0.6},
	{ID: "dusty", Name: "Dusty", Rarity: Common, BaseCPS: 0.7},
	{ID: "nibbles", Name: "Nibbles", Rarity: Common, BaseCPS: 0.4, Ability: &Ability{Kind: AbilityClick, Value: 5}},

	// Uncommon
	{ID: "sage", Name: "Sage", Rarity: Uncommon, BaseCPS: 2},
	{ID: "pepper", Name: "Pepper", Rarity: Uncommon, BaseCPS: 2.5, Ability: &Ability{Kind: AbilityOutput, Value: 10}},
	{ID: "maple", Name: "Maple", Rarity: Uncommon, BaseCPS: 3},

	// Rare
	{ID: "luna", Name: "Luna", Rarity: Rare, BaseCPS: 8, Ability: &Ability{Kind: AbilityDropRate, Value: 5}},
	{ID: "biscuit", Name: "Biscuit", Rarity: Rare, BaseCPS: 10},
	{ID: "shadow", Name: "Shadow", Rarity: Rare, BaseCPS: 12, Ability: &Ability{Kind: AbilityClick, Value: 10}},

	// Epic
	{ID: "blaze", Name: "Blaze", Rarity: Epic, BaseCPS: 30, Ability: &Ability{Kind: AbilityOutput, Value: 25}},
	{ID: "frost", Name: "Frost", Rarity: Epic, BaseCPS: 35},
	{ID: "comet", Name: "Comet", Rarity: Epic, BaseCPS: 40, Ability: &Ability{Kind: AbilityOffline, Value: 20}},

	// Legendary
	{ID: "aurora", Name: "Aurora", Rarity: Legendary, BaseCPS: 120, Ability: &Ability{Kind: AbilityOutput, Value: 50}},
	{ID: "eclipse", Name: "Eclipse", Rarity: Legendary, BaseCPS: 150, Ability: &Ability{Kind: AbilityDropRate, Value: 10}},

	// Mythical
	{ID: "celestine", Name: "Celestine", Rarity: Mythical, BaseCPS: 500, Ability: &Ability{Kind: AbilityOutput, Value: 100}},
	{ID: "the_elder", Name: "The Elder", Rarity: Mythical, BaseCPS: 650, Ability: &Ability{Kind: AbilityClick, Value: 50}},
}

var catalogByID = buildIndex(Catalog)

func buildIndex(rs []Rabbit) map[string]Rabbit {
	idx := make(map[string]Rabbit, len(rs))
	for _, r := range rs {
		if r.ID == "" {
			panic("rabbit catalog: empty id")
		}
		if !r.Rarity.Valid() {
			panic(fmt.Sprintf("rabbit catalog: %s has unknown rarity %q", r.ID, r.Rarity))
		}
		if r.BaseCPS < 0 {
			panic(fmt.Sprintf("rabbit catalog: %s has negative base cps", r.ID))
		}
		if _, dup := idx[r.ID]; dup {
			panic(fmt.Sprintf("rabbit catalog: duplicate id %s", r.ID))
		}
		idx[r.ID] = r
	}
	return idx
}

// ByID looks up a catalog definition.
func ByID(id string) (Rabbit, bool) {
	r, ok := catalogByID[id]
	return r, ok
}

// ByRarity returns all catalog rabbits of the given tier, in catalog order.
func ByRarity(r Rarity) []Rabbit {
	var out []Rabbit
	for _, def := range Catalog {
		if def.Rarity == r {
			out = append(out, def)
		}
	}
	return out
}
