package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/openmeet/salas/internal/core"
	"github.com/openmeet/salas/internal/domain"
)

// handleJoinRoom announces the connection as active in a room. Membership in
// the registry is not checked here; the relay trusts the announced identity.
func (ctl *SignalWSController) handleJoinRoom(
	id core.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
		UserID string `json:"userId"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if !ctl.limiter.Allow(id) {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Msg("join rate limited")
		ctl.sendError(conn, "too_many_joins")
		return
	}

	if err := ctl.Relay.Announce(id, domain.RoomID(p.RoomID), p.UserID); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("announce rejected")
		ctl.sendError(conn, "bad_payload")
		return
	}
}

// handleSignalEvent forwards an opaque signaling payload to the room. The
// relay never looks inside signalData.
func (ctl *SignalWSController) handleSignalEvent(
	id core.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type signalPayload struct {
		Type       string          `json:"type"`
		RoomID     string          `json:"roomId"`
		SignalData json.RawMessage `json:"signalData"`
	}
	var p signalPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad signal payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	if err := ctl.Relay.Signal(id, domain.RoomID(p.RoomID), p.SignalData); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("signal rejected")
		ctl.sendError(conn, "bad_payload")
		return
	}
}
