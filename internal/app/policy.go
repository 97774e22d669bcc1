package app

import "github.com/openmeet/salas/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickConn
)

// Policy decides what happens to a connection whose send buffer is full
// during a broadcast.
type Policy interface {
	OnBackPressure(room *core.PresenceSet, conn core.ConnID) BackpressureAction
}

// SimplePolicy kicks slow consumers; their teardown then runs the normal
// disconnect broadcast.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(room *core.PresenceSet, conn core.ConnID) BackpressureAction {
	return KickConn
}
