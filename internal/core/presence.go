package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/openmeet/salas/internal/domain"
)

// PublishResult reports delivery stats/backpressure to the relay.
type PublishResult struct {
	SentTo  int
	Dropped []ConnID
}

// PresenceSet is a threadsafe set of the live connections currently announced
// in one room. It tracks connections, not registry membership, and it never
// closes adapter-owned resources.
type PresenceSet struct {
	roomID domain.RoomID
	mu     sync.RWMutex
	conns  map[ConnID]SignalConnection
}

func NewPresenceSet(roomID domain.RoomID) *PresenceSet {
	return &PresenceSet{
		roomID: roomID,
		conns:  make(map[ConnID]SignalConnection),
	}
}

func (p *PresenceSet) RoomID() domain.RoomID { return p.roomID }

func (p *PresenceSet) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.conns)
}

func (p *PresenceSet) Add(id ConnID, conn SignalConnection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns[id] = conn
	log.Info().Str("module", "core.presence").Str("room", string(p.roomID)).Str("conn", string(id)).Msg("member added")
}

func (p *PresenceSet) Remove(id ConnID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.conns, id)
	log.Info().Str("module", "core.presence").Str("room", string(p.roomID)).Str("conn", string(id)).Msg("member removed")
}

// Broadcast delivers data to the snapshot of members present now, excluding
// from. Slow consumers are reported, never waited on.
func (p *PresenceSet) Broadcast(from ConnID, data Frame) PublishResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	res := PublishResult{}
	for id, conn := range p.conns {
		if id == from {
			continue
		}
		if err := conn.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, id)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.presence").Str("room", string(p.roomID)).Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
