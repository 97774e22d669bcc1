package core

import (
	"context"

	"github.com/openmeet/salas/internal/domain"
)

// RoomStore is the durable collaborator for room records, keyed by room id.
// AppendParticipant is the single conditional write primitive: it appends
// userID to the room's participant list only if the user is absent and the
// room is below capacity, so the capacity invariant holds under concurrent
// joins without coordination above the store.
type RoomStore interface {
	InsertRoom(ctx context.Context, room *domain.Room) error
	GetRoom(ctx context.Context, id domain.RoomID) (*domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)

	// AppendParticipant returns the updated room on success, or
	// domain.ErrRoomNotFound / ErrAlreadyMember / ErrRoomFull.
	AppendParticipant(ctx context.Context, id domain.RoomID, userID string) (*domain.Room, error)
}

// UserStore persists account records. InsertUser fails with
// domain.ErrEmailTaken when the email is already registered.
type UserStore interface {
	InsertUser(ctx context.Context, user *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id domain.UserID) (*domain.User, error)
}
