// Package natsbus implements core.Bus over NATS so relay instances in
// different processes exchange presence and signaling events.
package natsbus

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/openmeet/salas/internal/core"
	"github.com/openmeet/salas/internal/domain"
)

const subjectPrefix = "salas.room."

// Bus publishes each room's events on its own subject. Every node holding
// members of a room subscribes to that subject; the publishing node receives
// its own events too, which keeps local and remote delivery symmetric.
type Bus struct {
	conn *nats.Conn

	mu   sync.Mutex
	subs map[domain.RoomID]*nats.Subscription
}

func Connect(url string) (*Bus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	log.Info().Str("module", "natsbus").Str("url", url).Msg("connected to nats")
	return &Bus{conn: conn, subs: make(map[domain.RoomID]*nats.Subscription)}, nil
}

func subject(room domain.RoomID) string {
	return subjectPrefix + string(room)
}

func (b *Bus) Publish(ev core.BusEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode bus event: %w", err)
	}
	return b.conn.Publish(subject(ev.Room), data)
}

func (b *Bus) Subscribe(room domain.RoomID, handler func(core.BusEvent)) error {
	sub, err := b.conn.Subscribe(subject(room), func(msg *nats.Msg) {
		var ev core.BusEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			log.Error().Err(err).Str("module", "natsbus").Str("room", string(room)).Msg("bad bus event")
			return
		}
		handler(ev)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if prev, ok := b.subs[room]; ok {
		_ = prev.Unsubscribe()
	}
	b.subs[room] = sub
	return nil
}

func (b *Bus) Unsubscribe(room domain.RoomID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub, ok := b.subs[room]; ok {
		_ = sub.Unsubscribe()
		delete(b.subs, room)
	}
}

func (b *Bus) Close() {
	b.conn.Close()
}
