package savegame

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nathan71370/rabbit-clicker-sub000/internal/building"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/crate"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/prestige"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/rabbit"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/upgrade"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/wallet"
)

// Version is the current save format. Loading rejects anything newer and
// migrates anything older.
const Version = 2

// Blob is the versioned save envelope. Map-shaped runtime state is stored as
// entry arrays so the wire form stays plain and ordered.
type Blob struct {
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	Wallet    wallet.Wallet   `json:"wallet"`
	Buildings []BuildingEntry `json:"buildings"`
	Upgrades  []string        `json:"upgrades"`
	Rabbits   []rabbit.Owned  `json:"rabbits"`
	Team      []string        `json:"team"`
	Pity      PityDoc         `json:"pity"`
	History   []crate.Drop    `json:"history,omitempty"`
	Prestige  prestige.State  `json:"prestige"`
}

type BuildingEntry struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

type PityDoc struct {
	SinceEpic      int `json:"since_epic"`
	SinceLegendary int `json:"since_legendary"`
	SinceMythical  int `json:"since_mythical"`
}

// Stores bundles the repositories a snapshot spans.
type Stores struct {
	Wallet    wallet.Repository
	Buildings building.Repository
	Upgrades  upgrade.Repository
	Rabbits   rabbit.Repository
	Gacha     crate.Repository
	Prestige  prestige.Repository
}

// Capture snapshots every store into a Blob.
func Capture(ctx context.Context, s Stores, now time.Time) (Blob, error) {
	b := Blob{Version: Version, CreatedAt: now}

	w, err := s.Wallet.Get(ctx)
	if err != nil {
		return Blob{}, err
	}
	b.Wallet = w

	counts, err := s.Buildings.Counts(ctx)
	if err != nil {
		return Blob{}, err
	}
	for _, def := range building.Catalog {
		if n := counts[def.ID]; n > 0 {
			b.Buildings = append(b.Buildings, BuildingEntry{ID: def.ID, Count: n})
		}
	}

	b.Upgrades, err = s.Upgrades.List(ctx)
	if err != nil {
		return Blob{}, err
	}
	b.Rabbits, err = s.Rabbits.List(ctx)
	if err != nil {
		return Blob{}, err
	}
	b.Team, err = s.Rabbits.Team(ctx)
	if err != nil {
		return Blob{}, err
	}

	st, err := s.Gacha.Get(ctx)
	if err != nil {
		return Blob{}, err
	}
	b.Pity = PityDoc{SinceEpic: st.SinceEpic, SinceLegendary: st.SinceLegendary, SinceMythical: st.SinceMythical}
	b.History = st.History

	b.Prestige, err = s.Prestige.Get(ctx)
	if err != nil {
		return Blob{}, err
	}
	return b, nil
}

// Validate checks a blob against the running code before any store is
// touched: supported version, known ids, sane counters.
func (b Blob) Validate() error {
	if b.Version > Version {
		return fmt.Errorf("save version %d is newer than supported version %d", b.Version, Version)
	}
	if b.Version < 1 {
		return fmt.Errorf("save version %d is invalid", b.Version)
	}
	for _, entry := range b.Buildings {
		if _, ok := building.ByID(entry.ID); !ok {
			return fmt.Errorf("save references unknown building %s", entry.ID)
		}
		if entry.Count < 0 {
			return fmt.Errorf("save has negative count for building %s", entry.ID)
		}
	}
	for _, id := range b.Upgrades {
		if _, ok := upgrade.ByID(id); !ok {
			return fmt.Errorf("save references unknown upgrade %s", id)
		}
	}
	ownedSet := make(map[string]bool, len(b.Rabbits))
	for _, o := range b.Rabbits {
		if _, ok := rabbit.ByID(o.RabbitID); !ok {
			return fmt.Errorf("save references unknown rabbit %s", o.RabbitID)
		}
		if ownedSet[o.RabbitID] {
			return fmt.Errorf("save lists rabbit %s twice", o.RabbitID)
		}
		if o.Level < 1 {
			return fmt.Errorf("save has invalid level for rabbit %s", o.RabbitID)
		}
		ownedSet[o.RabbitID] = true
	}
	for _, id := range b.Team {
		if !ownedSet[id] {
			return fmt.Errorf("save team references unowned rabbit %s", id)
		}
	}
	if b.Pity.SinceEpic < 0 || b.Pity.SinceLegendary < 0 || b.Pity.SinceMythical < 0 {
		return fmt.Errorf("save has negative pity counters")
	}
	if b.Wallet.Carrots < 0 || b.Wallet.GoldenCarrots < 0 || b.Wallet.LifetimeCarrots < 0 {
		return fmt.Errorf("save has negative balances")
	}
	if b.Prestige.BonusPoints < 0 || b.Prestige.Count < 0 {
		return fmt.Errorf("save has negative prestige state")
	}
	return nil
}

// Restore validates the blob, migrates old versions, and replaces every
// store's contents. Stores are untouched when validation fails.
func Restore(ctx context.Context, s Stores, b Blob) error {
	if err := b.Validate(); err != nil {
		return err
	}
	b = migrate(b)

	if err := s.Wallet.Update(ctx, b.Wallet); err != nil {
		return err
	}

	counts := make(map[string]int, len(b.Buildings))
	for _, entry := range b.Buildings {
		counts[entry.ID] = entry.Count
	}
	if err := s.Buildings.Replace(ctx, counts); err != nil {
		return err
	}
	if err := s.Upgrades.Replace(ctx, b.Upgrades); err != nil {
		return err
	}
	if err := s.Rabbits.Replace(ctx, b.Rabbits, b.Team); err != nil {
		return err
	}
	st := crate.State{
		SinceEpic:      b.Pity.SinceEpic,
		SinceLegendary: b.Pity.SinceLegendary,
		SinceMythical:  b.Pity.SinceMythical,
		History:        b.History,
	}
	if err := s.Gacha.Update(ctx, st); err != nil {
		return err
	}
	return s.Prestige.Update(ctx, b.Prestige)
}

// migrate lifts older blobs to the current schema. Version 1 predates the
// prestige and pity documents; their zero values are correct defaults.
func migrate(b Blob) Blob {
	if b.Version < 2 {
		b.Version = 2
	}
	return b
}

func marshalBlob(b Blob) ([]byte, error) {
	return json.Marshal(b)
}

func unmarshalBlob(data []byte) (Blob, error) {
	var b Blob
	if err := json.Unmarshal(data, &b); err != nil {
		return Blob{}, fmt.Errorf("malformed save: %w", err)
	}
	return b, nil
}
