// Package events carries change notifications from the simulation to
// its observers. Registration is explicit and owned by the bus; there
// is no process-wide ambient dispatch.
package events

import (
	"sync"

	"github.com/solstice-labs/lumen/lumen/database/models"
)

// Op names the mutation that produced a change event.
type Op string

const (
	OpCreate       Op = "create"
	OpFeed         Op = "feed"
	OpPlay         Op = "play"
	OpHeal         Op = "heal"
	OpClean        Op = "clean"
	OpDecay        Op = "decay"
	OpRename       Op = "rename"
	OpCustomize    Op = "customize"
	OpAbilityGrant Op = "ability_grant"
	OpQuestStart   Op = "quest_start"
	OpQuestResolve Op = "quest_resolve"
)

// CompanionChanged is published after every successful mutation. The
// companion is a snapshot; observers may keep it without racing the
// next mutation.
type CompanionChanged struct {
	Companion *models.Companion
	Op        Op
}

type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(CompanionChanged)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(CompanionChanged))}
}

// Subscribe registers fn and returns an unsubscribe func.
func (b *Bus) Subscribe(fn func(CompanionChanged)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish fans the event out synchronously to every subscriber.
func (b *Bus) Publish(ev CompanionChanged) {
	b.mu.RLock()
	handlers := make([]func(CompanionChanged), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	if ev.Companion != nil {
		ev.Companion = ev.Companion.Clone()
	}
	for _, fn := range handlers {
		fn(ev)
	}
}
