// Package domain contains the persisted entities and their construction rules.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const MinRoomNameLen = 3

type RoomID string

// Room is a capacity-bounded group that participants join to coordinate a
// session. Participants is mutated only by the registry's join operation;
// its length never exceeds Capacity.
type Room struct {
	ID           RoomID    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Description  string    `json:"description" bson:"description"`
	Capacity     int       `json:"capacity" bson:"capacity"`
	IsActive     bool      `json:"isActive" bson:"is_active"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	Participants []string  `json:"participants" bson:"participants"`
}

// NewRoom validates input and builds a room with the creator as its first
// participant.
func NewRoom(name, description string, capacity int, creatorID string) (*Room, error) {
	if len(name) < MinRoomNameLen {
		return nil, fmt.Errorf("%w: name must be at least %d characters", ErrValidation, MinRoomNameLen)
	}
	if capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", ErrValidation)
	}
	return &Room{
		ID:           RoomID(uuid.NewString()),
		Name:         name,
		Description:  description,
		Capacity:     capacity,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		Participants: []string{creatorID},
	}, nil
}

func (r *Room) HasParticipant(userID string) bool {
	for _, p := range r.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// RemainingSlots reports how many participants can still join.
func (r *Room) RemainingSlots() int {
	return r.Capacity - len(r.Participants)
}
