package rabbit

import "time"

// Rarity is one of the six ordered drop tiers.
type Rarity string

const (
	Common    Rarity = "common"
	Uncommon  Rarity = "uncommon"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
	Mythical  Rarity = "mythical"
)

// Tiers lists all rarities from lowest to highest. Drop tables are walked in
// this order, so it must stay sorted.
var Tiers = []Rarity{Common, Uncommon, Rare, Epic, Legendary, Mythical}

var rarityRank = map[Rarity]int{
	Common:    0,
	Uncommon:  1,
	Rare:      2,
	Epic:      3,
	Legendary: 4,
	Mythical:  5,
}

// Rank returns the tier's position in the rarity ladder, -1 for unknown tiers.
func (r Rarity) Rank() int {
	rank, ok := rarityRank[r]
	if !ok {
		return -1
	}
	return rank
}

// AtLeast reports whether r is the same tier as other or higher.
func (r Rarity) AtLeast(other Rarity) bool {
	return r.Rank() >= other.Rank()
}

func (r Rarity) Valid() bool {
	_, ok := rarityRank[r]
	return ok
}

// AbilityKind tags what a rabbit's passive ability modifies.
type AbilityKind string

const (
	AbilityClick    AbilityKind = "click"     // click power bonus
	AbilityOutput   AbilityKind = "output"    // own CPS bonus
	AbilityDropRate AbilityKind = "drop_rate" // crate luck bonus
	AbilityOffline  AbilityKind = "offline"   // offline efficiency bonus
)

// Ability is a percentage modifier attached to a rabbit definition.
type Ability struct {
	Kind  AbilityKind `json:"kind" yaml:"kind"`
	Value float64     `json:"value" yaml:"value"` // percent, e.g. 10 => +10%
}

// Rabbit is a static collectible definition from the catalog.
type Rabbit struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Rarity  Rarity   `json:"rarity"`
	BaseCPS float64  `json:"base_cps"`
	Ability *Ability `json:"ability,omitempty"`
}

// Owned is a rabbit instance in the player's collection. An ID appears at most
// once; duplicates convert to compensation instead of a second instance.
type Owned struct {
	RabbitID   string    `json:"rabbit_id"`
	Level      int       `json:"level"`
	Experience float64   `json:"experience"`
	ObtainedAt time.Time `json:"obtained_at"`
}

// OutputMultiplier scales base CPS by level: +10% per level past the first.
func (o Owned) OutputMultiplier() float64 {
	if o.Level < 1 {
		return 1
	}
	return 1 + 0.1*float64(o.Level-1)
}
