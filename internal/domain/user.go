package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserID string

// User is an account record. PasswordHash is a bcrypt digest and is never
// serialized to JSON.
type User struct {
	ID           UserID    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(name, email, passwordHash string) *User {
	return &User{
		ID:           UserID(uuid.NewString()),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}
