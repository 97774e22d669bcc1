package domain

import "errors"

// Error taxonomy shared by the registry, the relay and the HTTP layer.
// The HTTP adapter maps these to status codes with errors.Is; storage
// details are wrapped into ErrStorage and never leak to callers.
var (
	ErrValidation    = errors.New("validation failed")
	ErrRoomNotFound  = errors.New("room not found")
	ErrAlreadyMember = errors.New("already a member of this room")
	ErrRoomFull      = errors.New("room is full")
	ErrEmailTaken    = errors.New("email already registered")
	ErrAuth          = errors.New("invalid credentials")
	ErrStorage       = errors.New("storage failure")
)
