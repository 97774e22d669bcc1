package app

import (
	"sync"

	"github.com/openmeet/salas/internal/core"
	"github.com/openmeet/salas/internal/domain"
)

// LocalBus is the single-process core.Bus: events published to a room are
// delivered synchronously to that room's handler on the same node.
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[domain.RoomID]func(core.BusEvent)
}

func NewLocalBus() *LocalBus {
	return &LocalBus{handlers: make(map[domain.RoomID]func(core.BusEvent))}
}

func (b *LocalBus) Publish(ev core.BusEvent) error {
	b.mu.RLock()
	handler, ok := b.handlers[ev.Room]
	b.mu.RUnlock()
	if ok {
		handler(ev)
	}
	return nil
}

func (b *LocalBus) Subscribe(room domain.RoomID, handler func(core.BusEvent)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[room] = handler
	return nil
}

func (b *LocalBus) Unsubscribe(room domain.RoomID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, room)
}
