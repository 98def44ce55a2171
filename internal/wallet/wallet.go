package wallet

import (
	"context"
	"math"
	"time"
)

// Wallet tracks the player's currency balances for the current run.
// Carrots never goes negative; LifetimeCarrots only grows until a prestige
// resets the run.
type Wallet struct {
	Carrots         float64   `json:"carrots"`
	GoldenCarrots   float64   `json:"golden_carrots"`
	LifetimeCarrots float64   `json:"lifetime_carrots"`
	TotalClicks     int64     `json:"total_clicks"`
	LastSeenAt      time.Time `json:"last_seen_at"`
}

// Add credits earned carrots to both the spendable and lifetime counters.
// Non-finite or negative amounts are ignored.
func (w *Wallet) Add(amount float64) bool {
	if !validAmount(amount) {
		return false
	}
	w.Carrots += amount
	w.LifetimeCarrots += amount
	return true
}

// Spend deducts carrots, refusing to go negative. Returns false and leaves
// the balance untouched when funds are insufficient or the amount is invalid.
func (w *Wallet) Spend(amount float64) bool {
	if !validAmount(amount) {
		return false
	}
	if w.Carrots < amount {
		return false
	}
	w.Carrots -= amount
	return true
}

// AddGolden credits premium currency. Golden carrots do not count toward
// lifetime earnings.
func (w *Wallet) AddGolden(amount float64) bool {
	if !validAmount(amount) {
		return false
	}
	w.GoldenCarrots += amount
	return true
}

// SpendGolden deducts premium currency with the same all-or-nothing rule.
func (w *Wallet) SpendGolden(amount float64) bool {
	if !validAmount(amount) {
		return false
	}
	if w.GoldenCarrots < amount {
		return false
	}
	w.GoldenCarrots -= amount
	return true
}

// Has reports whether the spendable balance covers amount.
func (w Wallet) Has(amount float64) bool {
	return validAmount(amount) && w.Carrots >= amount
}

func validAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && amount >= 0
}

// Repository persists the wallet.
type Repository interface {
	Get(ctx context.Context) (Wallet, error)
	Update(ctx context.Context, w Wallet) error
}
