package app

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/openmeet/salas/internal/core"
	"github.com/openmeet/salas/internal/domain"
)

// Outbound event types on the signaling channel.
const (
	EventUserConnected    = "user-connected"
	EventUserDisconnected = "user-disconnected"
	EventSignal           = "signal"
)

// wireEvent is the frame shape delivered to members of a room.
type wireEvent struct {
	Type       string          `json:"type"`
	UserID     string          `json:"userId,omitempty"`
	SignalData json.RawMessage `json:"signalData,omitempty"`
}

// connRecord maps a live connection to the rooms it has announced into,
// with the participant identity it announced under. Looked up on teardown
// to drive the disconnect broadcast.
type connRecord struct {
	conn  core.SignalConnection
	rooms map[domain.RoomID]string
}

// Relay owns the ephemeral presence sets and forwards presence and signaling
// events between the live connections of a room. It never reads or writes
// Room records; the caller-supplied participant identity is trusted as-is.
// All fan-out goes through the bus, so members connected to other processes
// receive the same events.
type Relay struct {
	bus    core.Bus
	policy Policy

	mu    sync.RWMutex
	conns map[core.ConnID]*connRecord
	rooms map[domain.RoomID]*core.PresenceSet
}

func NewRelay(bus core.Bus, policy Policy) *Relay {
	return &Relay{
		bus:    bus,
		policy: policy,
		conns:  make(map[core.ConnID]*connRecord),
		rooms:  make(map[domain.RoomID]*core.PresenceSet),
	}
}

// Register binds a new live connection to the relay. Must be called once per
// connection before any Announce or Signal.
func (r *Relay) Register(id core.ConnID, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &connRecord{conn: conn, rooms: make(map[domain.RoomID]string)}
	log.Info().Str("module", "app.relay").Str("conn", string(id)).Msg("connection registered")
}

// Announce declares the connection active in roomID as participantID and
// broadcasts user-connected to the room's other members. A connection may be
// announced into several rooms at once.
func (r *Relay) Announce(id core.ConnID, roomID domain.RoomID, participantID string) error {
	if roomID == "" || participantID == "" {
		return fmt.Errorf("%w: roomId and userId are required", domain.ErrValidation)
	}

	r.mu.Lock()
	rec, ok := r.conns[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: unknown connection", domain.ErrValidation)
	}
	rec.rooms[roomID] = participantID
	set, ok := r.rooms[roomID]
	if !ok {
		set = core.NewPresenceSet(roomID)
		r.rooms[roomID] = set
		if err := r.bus.Subscribe(roomID, r.deliver); err != nil {
			log.Error().Err(err).Str("module", "app.relay").Str("room", string(roomID)).Msg("bus subscribe")
		}
	}
	set.Add(id, rec.conn)
	r.mu.Unlock()

	log.Info().Str("module", "app.relay").Str("conn", string(id)).Str("room", string(roomID)).Str("user", participantID).Msg("announced")
	r.publish(roomID, id, wireEvent{Type: EventUserConnected, UserID: participantID})
	return nil
}

// Signal forwards the opaque payload to every other member of the room's
// presence set. The sender does not need to have announced first.
func (r *Relay) Signal(id core.ConnID, roomID domain.RoomID, payload json.RawMessage) error {
	if roomID == "" || len(payload) == 0 {
		return fmt.Errorf("%w: roomId and signalData are required", domain.ErrValidation)
	}
	r.publish(roomID, id, wireEvent{Type: EventSignal, SignalData: payload})
	return nil
}

// Disconnect removes the connection from every presence set it had joined and
// broadcasts user-disconnected per room. Empty sets are discarded. No
// broadcast happens for a connection that never announced.
func (r *Relay) Disconnect(id core.ConnID) {
	r.mu.Lock()
	rec, ok := r.conns[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.conns, id)
	for roomID := range rec.rooms {
		set, ok := r.rooms[roomID]
		if !ok {
			continue
		}
		set.Remove(id)
		if set.Count() == 0 {
			delete(r.rooms, roomID)
			r.bus.Unsubscribe(roomID)
		}
	}
	r.mu.Unlock()

	for roomID, participantID := range rec.rooms {
		log.Info().Str("module", "app.relay").Str("conn", string(id)).Str("room", string(roomID)).Str("user", participantID).Msg("disconnected")
		r.publish(roomID, id, wireEvent{Type: EventUserDisconnected, UserID: participantID})
	}
}

func (r *Relay) publish(roomID domain.RoomID, origin core.ConnID, ev wireEvent) {
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("encode event")
		return
	}
	if err := r.bus.Publish(core.BusEvent{Room: roomID, Origin: origin, Frame: frame}); err != nil {
		log.Error().Err(err).Str("module", "app.relay").Str("room", string(roomID)).Msg("bus publish")
	}
}

// deliver fans a bus event out to the local presence set of its room,
// excluding the originating connection.
func (r *Relay) deliver(ev core.BusEvent) {
	r.mu.RLock()
	set, ok := r.rooms[ev.Room]
	r.mu.RUnlock()
	if !ok {
		return
	}

	res := set.Broadcast(ev.Origin, ev.Frame)
	if r.policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch r.policy.OnBackPressure(set, slow) {
		case KickConn:
			r.mu.RLock()
			rec, ok := r.conns[slow]
			r.mu.RUnlock()
			if ok {
				log.Warn().Str("module", "app.relay").Str("conn", string(slow)).Msg("kicking slow consumer")
				rec.conn.Close()
			}
		case DropFrame, NoAction:
		}
	}
}
