package core

// Frame is a wire-encoded message payload.
type Frame []byte

// ConnID identifies a single live signaling connection.
type ConnID string

// SignalConnection abstracts the outbound side of a live connection.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
