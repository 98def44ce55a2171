package events

import (
	"sync"
	"time"
)

// Type describes the kind of event emitted by the game core.
type Type string

const (
	TypeCrateDrop       Type = "CrateDrop"
	TypePrestige        Type = "Prestige"
	TypeMilestone       Type = "Milestone"
	TypeOfflineEarnings Type = "OfflineEarnings"
)

// Event is a core notification for presentation code (toasts, reveal
// animations). Handlers must not mutate game state.
type Event struct {
	Type Type
	At   time.Time
	Data any
}

// Bus is a minimal synchronous publish/subscribe fan-out. Subscribers are
// invoked in registration order on the publisher's goroutine.
type Bus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future events.
func (b *Bus) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()
}

// Publish delivers the event to every subscriber.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	subs := make([]func(Event), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}
