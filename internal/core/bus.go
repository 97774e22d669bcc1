package core

import "github.com/openmeet/salas/internal/domain"

// BusEvent is a relay event addressed to a room's presence set. Frame is the
// already-encoded payload delivered verbatim to members; Origin is excluded
// from delivery on whichever node it is connected to.
type BusEvent struct {
	Room   domain.RoomID `json:"room"`
	Origin ConnID        `json:"origin"`
	Frame  Frame         `json:"frame"`
}

// Bus fans relay events out to every process holding members of a room.
// A single-process deployment uses the in-process implementation; clustered
// relays share a pub/sub fabric keyed by room id.
type Bus interface {
	Publish(ev BusEvent) error
	Subscribe(room domain.RoomID, handler func(BusEvent)) error
	Unsubscribe(room domain.RoomID)
}
