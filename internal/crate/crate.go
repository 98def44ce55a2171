package crate

import (
	"fmt"
	"math"
	"time"

	"github.com/nathan71370/rabbit-clicker-sub000/internal/rabbit"
)

// Currency names which balance a crate is paid from. A crate costs exactly
// one currency, never both.
type Currency string

const (
	CurrencyCarrots Currency = "carrots"
	CurrencyGolden  Currency = "golden"
)

// Crate is a static gacha box definition with a full drop table.
type Crate struct {
	ID       string                    `json:"id"`
	Name     string                    `json:"name"`
	Cost     float64                   `json:"cost"`
	Currency Currency                  `json:"currency"`
	Rates    map[rabbit.Rarity]float64 `json:"rates"`
}

// RateTolerance bounds how far a drop table may drift from summing to 1.0.
const RateTolerance = 1e-4

// Validate checks the drop table shape: every tier present, no negative
// chance, probabilities summing to 1 within tolerance.
func (c Crate) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("crate has empty id")
	}
	if c.Cost <= 0 {
		return fmt.Errorf("crate %s: non-positive cost", c.ID)
	}
	if c.Currency != CurrencyCarrots && c.Currency != CurrencyGolden {
		return fmt.Errorf("crate %s: unknown currency %q", c.ID, c.Currency)
	}
	if len(c.Rates) != len(rabbit.Tiers) {
		return fmt.Errorf("crate %s: drop table has %d tiers, want %d", c.ID, len(c.Rates), len(rabbit.Tiers))
	}
	sum := 0.0
	for _, tier := range rabbit.Tiers {
		p, ok := c.Rates[tier]
		if !ok {
			return fmt.Errorf("crate %s: missing rate for %s", c.ID, tier)
		}
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("crate %s: invalid rate %v for %s", c.ID, p, tier)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > RateTolerance {
		return fmt.Errorf("crate %s: rates sum to %v, want 1.0", c.ID, sum)
	}
	return nil
}

// Catalog is the shipped crate list, validated at init. An invalid table is a
// programmer error and fails fast.
var Catalog = mustCatalog([]Crate{
	{
		ID: "wooden_crate", Name: "Wooden Crate", Cost: 500, Currency: CurrencyCarrots,
		Rates: map[rabbit.Rarity]float64{
			rabbit.Common: 0.55, rabbit.Uncommon: 0.25, rabbit.Rare: 0.12,
			rabbit.Epic: 0.05, rabbit.Legendary: 0.025, rabbit.Mythical: 0.005,
		},
	},
	{
		ID: "golden_crate", Name: "Golden Crate", Cost: 25, Currency: CurrencyGolden,
		Rates: map[rabbit.Rarity]float64{
			rabbit.Common: 0.30, rabbit.Uncommon: 0.30, rabbit.Rare: 0.20,
			rabbit.Epic: 0.12, rabbit.Legendary: 0.06, rabbit.Mythical: 0.02,
		},
	},
	{
		ID: "mythic_crate", Name: "Mythic Crate", Cost: 100, Currency: CurrencyGolden,
		Rates: map[rabbit.Rarity]float64{
			rabbit.Common: 0.10, rabbit.Uncommon: 0.20, rabbit.Rare: 0.30,
			rabbit.Epic: 0.22, rabbit.Legendary: 0.12, rabbit.Mythical: 0.06,
		},
	},
})

var catalogByID map[string]Crate

func mustCatalog(cs []Crate) []Crate {
	idx := make(map[string]Crate, len(cs))
	for _, c := range cs {
		if err := c.Validate(); err != nil {
			panic(fmt.Sprintf("crate catalog: %v", err))
		}
		if _, dup := idx[c.ID]; dup {
			panic(fmt.Sprintf("crate catalog: duplicate id %s", c.ID))
		}
		idx[c.ID] = c
	}
	catalogByID = idx
	return cs
}

// ByID looks up a catalog definition.
func ByID(id string) (Crate, bool) {
	c, ok := catalogByID[id]
	return c, ok
}

// Drop records one resolved crate opening, most recent first in history.
type Drop struct {
	ID           string        `json:"id"`
	CrateID      string        `json:"crate_id"`
	RabbitID     string        `json:"rabbit_id"`
	Rarity       rabbit.Rarity `json:"rarity"`
	Duplicate    bool          `json:"duplicate"`
	Compensation float64       `json:"compensation,omitempty"`
	At           time.Time     `json:"at"`
}
