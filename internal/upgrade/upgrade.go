package upgrade

import "fmt"

// Category tags what an upgrade modifies. The set is closed so the production
// engine can branch exhaustively.
type Category string

const (
	// CategoryClick multiplies click power by Value.
	CategoryClick Category = "click"
	// CategoryAuto adds Value carrots/second of auto production.
	CategoryAuto Category = "auto"
	// CategoryGlobal multiplies total production by Value.
	CategoryGlobal Category = "global"
	// CategorySpecial covers miscellaneous effects interpreted by ID.
	CategorySpecial Category = "special"
)

// Upgrade is a one-time purchase definition.
type Upgrade struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Cost     float64  `json:"cost"`
	Category Category `json:"category"`
	Value    float64  `json:"value"`
	Requires []string `json:"requires,omitempty"` // all must be owned first
}

// Catalog is the shipped upgrade list. Special upgrades: lucky_clover adds its
// Value in percentage points to the unowned-pull bias, burrow_blanket adds its
// Value in percentage points to offline efficiency.
var Catalog = []Upgrade{
	{ID: "iron_paw", Name: "Iron Paw", Cost: 100, Category: CategoryClick, Value: 2},
	{ID: "steel_paw", Name: "Steel Paw", Cost: 5000, Category: CategoryClick, Value: 2, Requires: []string{"iron_paw"}},
	{ID: "golden_paw", Name: "Golden Paw", Cost: 250000, Category: CategoryClick, Value: 3, Requires: []string{"steel_paw"}},
	{ID: "auto_nibbler", Name: "Auto-Nibbler", Cost: 1000, Category: CategoryAuto, Value: 1},
	{ID: "auto_harvester", Name: "Auto-Harvester", Cost: 50000, Category: CategoryAuto, Value: 10, Requires: []string{"auto_nibbler"}},
	{ID: "fertile_soil", Name: "Fertile Soil", Cost: 10000, Category: CategoryGlobal, Value: 1.10},
	{ID: "carrot_juice", Name: "Carrot Juice", Cost: 500000, Category: CategoryGlobal, Value: 1.25, Requires: []string{"fertile_soil"}},
	{ID: "lucky_clover", Name: "Lucky Clover", Cost: 75000, Category: CategorySpecial, Value: 5},
	{ID: "burrow_blanket", Name: "Burrow Blanket", Cost: 120000, Category: CategorySpecial, Value: 10},
}

var catalogByID = buildIndex(Catalog)

func buildIndex(us []Upgrade) map[string]Upgrade {
	idx := make(map[string]Upgrade, len(us))
	for _, u := range us {
		if u.ID == "" {
			panic("upgrade catalog: empty id")
		}
		if u.Cost <= 0 {
			panic(fmt.Sprintf("upgrade catalog: %s has non-positive cost", u.ID))
		}
		if _, dup := idx[u.ID]; dup {
			panic(fmt.Sprintf("upgrade catalog: duplicate id %s", u.ID))
		}
		idx[u.ID] = u
	}
	// Prerequisites must reference defined upgrades.
	for _, u := range us {
		for _, req := range u.Requires {
			if _, ok := idx[req]; !ok {
				panic(fmt.Sprintf("upgrade catalog: %s requires unknown upgrade %s", u.ID, req))
			}
		}
	}
	return idx
}

// ByID looks up a catalog definition.
func ByID(id string) (Upgrade, bool) {
	u, ok := catalogByID[id]
	return u, ok
}
