// Package app holds the coordination services: the room registry and the
// presence/signaling relay. They share no state; a caller is expected to join
// a room through the registry before announcing presence to the relay.
package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/openmeet/salas/internal/core"
	"github.com/openmeet/salas/internal/domain"
)

// Registry owns persisted room records and enforces the capacity and
// membership invariants on join. All writes go through the store's
// conditional primitives, so concurrent joins on the same room cannot
// overbook it.
type Registry struct {
	store core.RoomStore
}

func NewRegistry(store core.RoomStore) *Registry {
	return &Registry{store: store}
}

// CreateRoom validates input, persists a fresh room and returns it. The
// creator is the first participant.
func (r *Registry) CreateRoom(ctx context.Context, name, description string, capacity int, creatorID string) (*domain.Room, error) {
	room, err := domain.NewRoom(name, description, capacity, creatorID)
	if err != nil {
		return nil, err
	}
	if err := r.store.InsertRoom(ctx, room); err != nil {
		return nil, err
	}
	log.Info().Str("module", "app.registry").Str("room", string(room.ID)).Str("creator", creatorID).Int("capacity", capacity).Msg("room created")
	return room, nil
}

func (r *Registry) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return r.store.ListRooms(ctx)
}

// JoinRoom admits callerID into the room and reports the remaining slots
// after the append. Fails with domain.ErrRoomNotFound, ErrAlreadyMember or
// ErrRoomFull without mutating the record.
func (r *Registry) JoinRoom(ctx context.Context, roomID domain.RoomID, callerID string) (*domain.Room, int, error) {
	room, err := r.store.AppendParticipant(ctx, roomID, callerID)
	if err != nil {
		return nil, 0, err
	}
	log.Info().Str("module", "app.registry").Str("room", string(roomID)).Str("user", callerID).Int("remaining", room.RemainingSlots()).Msg("user joined room")
	return room, room.RemainingSlots(), nil
}
