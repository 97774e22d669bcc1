// Package storage provides the durable-store implementations behind the
// core.RoomStore and core.UserStore interfaces.
package storage

import (
	"context"
	"sync"

	"github.com/openmeet/salas/internal/domain"
)

// MemoryStore keeps rooms and users in mutexed maps. It backs tests and
// single-node deployments without a configured Mongo URI. The conditional
// append runs entirely under the write lock, which gives it the same
// atomicity as the Mongo implementation's filtered update.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*domain.Room
	users map[domain.UserID]*domain.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: make(map[domain.RoomID]*domain.Room),
		users: make(map[domain.UserID]*domain.User),
	}
}

func cloneRoom(r *domain.Room) *domain.Room {
	out := *r
	out.Participants = append([]string(nil), r.Participants...)
	return &out
}

func (s *MemoryStore) InsertRoom(ctx context.Context, room *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (s *MemoryStore) GetRoom(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

func (s *MemoryStore) ListRooms(ctx context.Context) ([]domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, *cloneRoom(room))
	}
	return out, nil
}

func (s *MemoryStore) AppendParticipant(ctx context.Context, id domain.RoomID, userID string) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	if room.HasParticipant(userID) {
		return nil, domain.ErrAlreadyMember
	}
	if len(room.Participants) >= room.Capacity {
		return nil, domain.ErrRoomFull
	}
	room.Participants = append(room.Participants, userID)
	return cloneRoom(room), nil
}

func (s *MemoryStore) InsertUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrAuth
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrAuth
	}
	cp := *u
	return &cp, nil
}
