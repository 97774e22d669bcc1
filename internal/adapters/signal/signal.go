// Package signal is the WebSocket adapter for the presence/signaling relay.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/openmeet/salas/internal/app"
	"github.com/openmeet/salas/internal/config"
	"github.com/openmeet/salas/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type SignalWSController struct {
	Relay   *app.Relay
	cfg     *config.Config
	limiter *AnnounceRateLimiter
}

func NewSignalWSController(relay *app.Relay, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Relay:   relay,
		cfg:     cfg,
		limiter: NewAnnounceRateLimiter(16, time.Minute),
	}
}

// WsSignalConn wraps one websocket connection with a bounded send queue.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and runs the connection until teardown.
// Each websocket gets its own connection handle; the relay is told about the
// teardown exactly once, from the read side.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	connID := core.ConnID(uuid.NewString())
	log.Info().Str("module", "signal").Str("conn", string(connID)).Str("ct", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if ctl.cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.cfg.ReadLimit)
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	ctl.Relay.Register(connID, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, connID, conn)
		ctl.Relay.Disconnect(connID)
		ctl.limiter.Forget(connID)
	}()
}
