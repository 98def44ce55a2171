package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/nathan71370/rabbit-clicker-sub000/internal/building"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/config"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/crate"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/events"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/prestige"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/rabbit"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/upgrade"
	"github.com/nathan71370/rabbit-clicker-sub000/internal/wallet"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyOwned      = errors.New("already owned")
	ErrPrerequisite      = errors.New("prerequisites not met")
	ErrNotOwned          = errors.New("not owned")
	ErrTeamTooLarge      = errors.New("team exceeds maximum size")
	ErrNotEligible       = errors.New("prestige requirements not met")
	ErrUnknownID         = errors.New("unknown id")
)

// Engine owns all game-state mutation. Every public operation takes the
// engine mutex, so operations are atomic with respect to each other even when
// the tick loop and HTTP handlers run concurrently.
type Engine struct {
	mu  sync.Mutex
	cfg *config.Config

	wallet    wallet.Repository
	buildings building.Repository
	upgrades  upgrade.Repository
	rabbits   rabbit.Repository
	gacha     crate.Repository
	prestige  prestige.Repository

	bus    *events.Bus
	clock  Clock
	rng    RandomSource
	logger *log.Logger

	buildingDefs map[string]building.Building
	upgradeDefs  map[string]upgrade.Upgrade
	rabbitDefs   map[string]rabbit.Rabbit
	crateDefs    map[string]crate.Crate

	prod Production
}

// Options wires an Engine. Nil repositories default to fresh memory repos and
// nil catalogs default to the shipped ones, which keeps test setup short.
type Options struct {
	Config    *config.Config
	Wallet    wallet.Repository
	Buildings building.Repository
	Upgrades  upgrade.Repository
	Rabbits   rabbit.Repository
	Gacha     crate.Repository
	Prestige  prestige.Repository
	Bus       *events.Bus
	Clock     Clock
	RNG       RandomSource
	Logger    *log.Logger

	BuildingDefs []building.Building
	UpgradeDefs  []upgrade.Upgrade
	RabbitDefs   []rabbit.Rabbit
	CrateDefs    []crate.Crate
}

func New(opts Options) (*Engine, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Wallet == nil {
		opts.Wallet = wallet.NewMemoryRepo()
	}
	if opts.Buildings == nil {
		opts.Buildings = building.NewMemoryRepo()
	}
	if opts.Upgrades == nil {
		opts.Upgrades = upgrade.NewMemoryRepo()
	}
	if opts.Rabbits == nil {
		opts.Rabbits = rabbit.NewMemoryRepo()
	}
	if opts.Gacha == nil {
		opts.Gacha = crate.NewMemoryRepo()
	}
	if opts.Prestige == nil {
		opts.Prestige = prestige.NewMemoryRepo()
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.RNG == nil {
		opts.RNG = DefaultRNG()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.BuildingDefs == nil {
		opts.BuildingDefs = building.Catalog
	}
	if opts.UpgradeDefs == nil {
		opts.UpgradeDefs = upgrade.Catalog
	}
	if opts.RabbitDefs == nil {
		opts.RabbitDefs = rabbit.Catalog
	}
	if opts.CrateDefs == nil {
		opts.CrateDefs = crate.Catalog
	}

	e := &Engine{
		cfg:          opts.Config,
		wallet:       opts.Wallet,
		buildings:    opts.Buildings,
		upgrades:     opts.Upgrades,
		rabbits:      opts.Rabbits,
		gacha:        opts.Gacha,
		prestige:     opts.Prestige,
		bus:          opts.Bus,
		clock:        opts.Clock,
		rng:          opts.RNG,
		logger:       opts.Logger,
		buildingDefs: make(map[string]building.Building, len(opts.BuildingDefs)),
		upgradeDefs:  make(map[string]upgrade.Upgrade, len(opts.UpgradeDefs)),
		rabbitDefs:   make(map[string]rabbit.Rabbit, len(opts.RabbitDefs)),
		crateDefs:    make(map[string]crate.Crate, len(opts.CrateDefs)),
	}
	for _, b := range opts.BuildingDefs {
		e.buildingDefs[b.ID] = b
	}
	for _, u := range opts.UpgradeDefs {
		e.upgradeDefs[u.ID] = u
	}
	for _, r := range opts.RabbitDefs {
		e.rabbitDefs[r.ID] = r
	}
	for _, c := range opts.CrateDefs {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("crate defs: %w", err)
		}
		e.crateDefs[c.ID] = c
	}

	if err := e.recompute(context.Background()); err != nil {
		return nil, err
	}
	return e, nil
}

// Bus exposes the event bus for presentation subscribers.
func (e *Engine) Bus() *events.Bus { return e.bus }

// Production returns the cached breakdown from the last recompute.
func (e *Engine) Production() Production {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prod
}

// Recompute rebuilds the cached production breakdown from the stores. Callers
// that replace store contents out from under the engine, like a save import,
// use this to resynchronize.
func (e *Engine) Recompute(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recompute(ctx)
}

// AddCarrots credits earned currency. Invalid amounts are logged and ignored,
// never propagated.
func (e *Engine) AddCarrots(ctx context.Context, amount float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addCarrotsLocked(ctx, amount)
}

func (e *Engine) addCarrotsLocked(ctx context.Context, amount float64) error {
	w, err := e.wallet.Get(ctx)
	if err != nil {
		return err
	}
	if !w.Add(amount) {
		e.logger.Printf("game: rejected invalid carrot credit %v", amount)
		return nil
	}
	return e.wallet.Update(ctx, w)
}

// SpendCarrots deducts currency, all or nothing.
func (e *Engine) SpendCarrots(ctx context.Context, amount float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, err := e.wallet.Get(ctx)
	if err != nil {
		return err
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		e.logger.Printf("game: rejected invalid carrot spend %v", amount)
		return nil
	}
	if !w.Spend(amount) {
		return ErrInsufficientFunds
	}
	return e.wallet.Update(ctx, w)
}

// ClickResult reports one manual click.
type ClickResult struct {
	Earned      float64 `json:"earned"`
	Carrots     float64 `json:"carrots"`
	TotalClicks int64   `json:"total_clicks"`
}

// Click adds the current click power to the wallet and counts the click.
func (e *Engine) Click(ctx context.Context) (ClickResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, err := e.wallet.Get(ctx)
	if err != nil {
		return ClickResult{}, err
	}

	earned := e.prod.ClickPower
	w.TotalClicks++
	w.Add(earned)
	if err := e.wallet.Update(ctx, w); err != nil {
		return ClickResult{}, err
	}

	return ClickResult{Earned: earned, Carrots: w.Carrots, TotalClicks: w.TotalClicks}, nil
}

// Tick credits passive production for dt seconds. The delta is clamped so a
// throttled or resumed timer cannot dump a catch-up jump at the live rate;
// legitimately long gaps go through ReconcileOffline.
func (e *Engine) Tick(ctx context.Context, dt float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		e.logger.Printf("game: rejected invalid tick delta %v", dt)
		return 0, nil
	}
	if dt > e.cfg.Game.MaxTickSeconds {
		dt = e.cfg.Game.MaxTickSeconds
	}

	earned := e.prod.Total * dt
	if earned == 0 {
		return 0, nil
	}
	if err := e.addCarrotsLocked(ctx, earned); err != nil {
		return 0, err
	}
	return earned, nil
}

// PurchaseResult reports a successful building or upgrade purchase.
type PurchaseResult struct {
	ID       string     `json:"id"`
	CostPaid float64    `json:"cost_paid"`
	Count    int        `json:"count,omitempty"`
	Carrots  float64    `json:"carrots"`
	Rate     Production `json:"rate"`
}

// PurchaseBuilding buys the next unit of a building at its geometric cost.
func (e *Engine) PurchaseBuilding(ctx context.Context, id string) (PurchaseResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	def, ok := e.buildingDefs[id]
	if !ok {
		return PurchaseResult{}, fmt.Errorf("building %s: %w", id, ErrUnknownID)
	}

	count, err := e.buildings.Count(ctx, id)
	if err != nil {
		return PurchaseResult{}, err
	}
	cost := def.CostFor(count)

	w, err := e.wallet.Get(ctx)
	if err != nil {
		return PurchaseResult{}, err
	}
	if !w.Spend(cost) {
		return PurchaseResult{}, ErrInsufficientFunds
	}
	if err := e.wallet.Update(ctx, w); err != nil {
		return PurchaseResult{}, err
	}

	newCount, err := e.buildings.Increment(ctx, id)
	if err != nil {
		return PurchaseResult{}, err
	}
	if err := e.recompute(ctx); err != nil {
		return PurchaseResult{}, err
	}

	return PurchaseResult{ID: id, CostPaid: cost, Count: newCount, Carrots: w.Carrots, Rate: e.prod}, nil
}

// PurchaseUpgrade buys a one-time upgrade after checking ownership and
// prerequisites.
func (e *Engine) PurchaseUpgrade(ctx context.Context, id string) (PurchaseResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	def, ok := e.upgradeDefs[id]
	if !ok {
		return PurchaseResult{}, fmt.Errorf("upgrade %s: %w", id, ErrUnknownID)
	}

	owned, err := e.upgrades.Owned(ctx, id)
	if err != nil {
		return PurchaseResult{}, err
	}
	if owned {
		return PurchaseResult{}, ErrAlreadyOwned
	}
	for _, req := range def.Requires {
		has, err := e.upgrades.Owned(ctx, req)
		if err != nil {
			return PurchaseResult{}, err
		}
		if !has {
			return PurchaseResult{}, fmt.Errorf("upgrade %s needs %s: %w", id, req, ErrPrerequisite)
		}
	}

	w, err := e.wallet.Get(ctx)
	if err != nil {
		return PurchaseResult{}, err
	}
	if !w.Spend(def.Cost) {
		return PurchaseResult{}, ErrInsufficientFunds
	}
	if err := e.wallet.Update(ctx, w); err != nil {
		return PurchaseResult{}, err
	}

	if err := e.upgrades.MarkOwned(ctx, id); err != nil {
		return PurchaseResult{}, err
	}
	if err := e.recompute(ctx); err != nil {
		return PurchaseResult{}, err
	}

	return PurchaseResult{ID: id, CostPaid: def.Cost, Carrots: w.Carrots, Rate: e.prod}, nil
}

// AddRabbit grants a catalog rabbit directly, outside the gacha path. The
// instance starts at level 1 with no experience, off the team.
func (e *Engine) AddRabbit(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.rabbitDefs[id]; !ok {
		return fmt.Errorf("rabbit %s: %w", id, ErrUnknownID)
	}
	_, owned, err := e.rabbits.Get(ctx, id)
	if err != nil {
		return err
	}
	if owned {
		return ErrAlreadyOwned
	}
	err = e.rabbits.Add(ctx, rabbit.Owned{
		RabbitID:   id,
		Level:      1,
		ObtainedAt: e.clock.Now(),
	})
	if err != nil {
		return err
	}
	return e.recompute(ctx)
}

// SetActiveTeam replaces the active team atomically. Every id must be owned,
// appear once, and fit the configured team size.
func (e *Engine) SetActiveTeam(ctx context.Context, ids []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(ids) > e.cfg.Game.TeamSize {
		return ErrTeamTooLarge
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("rabbit %s listed twice: %w", id, ErrUnknownID)
		}
		seen[id] = true
		_, ok, err := e.rabbits.Get(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("rabbit %s: %w", id, ErrNotOwned)
		}
	}

	if err := e.rabbits.SetTeam(ctx, ids); err != nil {
		return err
	}
	return e.recompute(ctx)
}

// Touch advances the stored last-seen timestamp to now. Called on save so the
// offline reconciler measures from the last persisted moment.
func (e *Engine) Touch(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	w, err := e.wallet.Get(ctx)
	if err != nil {
		return err
	}
	w.LastSeenAt = e.clock.Now()
	return e.wallet.Update(ctx, w)
}

// ResetAll wipes every store back to its initial value, including prestige
// state. Each store is replaced wholesale, never merged field by field.
func (e *Engine) ResetAll(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.wallet.Update(ctx, wallet.Wallet{LastSeenAt: e.clock.Now()}); err != nil {
		return err
	}
	if err := e.buildings.Replace(ctx, nil); err != nil {
		return err
	}
	if err := e.upgrades.Replace(ctx, nil); err != nil {
		return err
	}
	if err := e.rabbits.Replace(ctx, nil, nil); err != nil {
		return err
	}
	if err := e.gacha.Update(ctx, crate.State{}); err != nil {
		return err
	}
	if err := e.prestige.Update(ctx, prestige.State{}); err != nil {
		return err
	}
	return e.recompute(ctx)
}
