package domain

import (
	"errors"
	"testing"
)

func TestNewRoom_Validation(t *testing.T) {
	tests := []struct {
		name     string
		roomName string
		capacity int
		wantErr  bool
	}{
		{"valid", "standup", 5, false},
		{"minimum name length", "abc", 1, false},
		{"name too short", "ab", 5, true},
		{"empty name", "", 5, true},
		{"zero capacity", "standup", 0, true},
		{"negative capacity", "standup", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room, err := NewRoom(tt.roomName, "", tt.capacity, "creator")
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				if room != nil {
					t.Fatalf("expected no room on validation failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if room.ID == "" {
				t.Fatalf("expected generated id")
			}
			if !room.IsActive {
				t.Fatalf("expected new room to be active")
			}
			if len(room.Participants) != 1 || room.Participants[0] != "creator" {
				t.Fatalf("expected creator as sole participant, got %v", room.Participants)
			}
			if room.CreatedAt.IsZero() {
				t.Fatalf("expected createdAt to be set")
			}
		})
	}
}

func TestRoom_RemainingSlots(t *testing.T) {
	room, err := NewRoom("standup", "", 3, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := room.RemainingSlots(); got != 2 {
		t.Fatalf("expected 2 remaining slots, got %d", got)
	}
	room.Participants = append(room.Participants, "b", "c")
	if got := room.RemainingSlots(); got != 0 {
		t.Fatalf("expected 0 remaining slots, got %d", got)
	}
}

func TestRoom_HasParticipant(t *testing.T) {
	room, _ := NewRoom("standup", "", 2, "a")
	if !room.HasParticipant("a") {
		t.Fatalf("expected creator to be a participant")
	}
	if room.HasParticipant("b") {
		t.Fatalf("did not expect b to be a participant")
	}
}
