package signal

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/openmeet/salas/internal/app"
	"github.com/openmeet/salas/internal/config"
)

type testEvent struct {
	Type       string          `json:"type"`
	UserID     string          `json:"userId"`
	SignalData json.RawMessage `json:"signalData"`
	Error      string          `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{ReadLimit: 32768, PingPeriod: time.Minute}
	relay := app.NewRelay(app.NewLocalBus(), app.SimplePolicy{})
	ctl := NewSignalWSController(relay, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	r := gin.New()
	r.GET("/api/ws/signal", func(c *gin.Context) {
		ctl.HandleSignal(ctx, c)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/signal"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) testEvent {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(3 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	var ev testEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	return ev
}

// waitProcessed round-trips a ping so every earlier inbound message on this
// connection has been handled.
func waitProcessed(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	sendJSON(t, conn, map[string]any{"type": "ping"})
	if ev := readEvent(t, conn); ev.Type != "pong" {
		t.Fatalf("expected pong, got %+v", ev)
	}
}

func TestPresenceFlow(t *testing.T) {
	srv := newTestServer(t)

	connA := dialWS(t, srv)
	sendJSON(t, connA, map[string]any{"type": "join-room", "roomId": "r1", "userId": "A"})
	waitProcessed(t, connA)

	connB := dialWS(t, srv)
	sendJSON(t, connB, map[string]any{"type": "join-room", "roomId": "r1", "userId": "B"})
	waitProcessed(t, connB)

	if ev := readEvent(t, connA); ev.Type != "user-connected" || ev.UserID != "B" {
		t.Fatalf("expected user-connected(B) for A, got %+v", ev)
	}

	connB.Close()
	if ev := readEvent(t, connA); ev.Type != "user-disconnected" || ev.UserID != "B" {
		t.Fatalf("expected user-disconnected(B) for A, got %+v", ev)
	}
}

func TestSignalForwarding(t *testing.T) {
	srv := newTestServer(t)

	connA := dialWS(t, srv)
	sendJSON(t, connA, map[string]any{"type": "join-room", "roomId": "r1", "userId": "A"})
	waitProcessed(t, connA)

	connB := dialWS(t, srv)
	sendJSON(t, connB, map[string]any{"type": "join-room", "roomId": "r1", "userId": "B"})
	waitProcessed(t, connB)

	// Drain B's arrival on A before signaling.
	if ev := readEvent(t, connA); ev.Type != "user-connected" {
		t.Fatalf("expected user-connected, got %+v", ev)
	}

	payload := `{"type":"offer","sdp":"v=0..."}`
	sendJSON(t, connA, map[string]any{
		"type":       "signal",
		"roomId":     "r1",
		"signalData": json.RawMessage(payload),
	})

	ev := readEvent(t, connB)
	if ev.Type != "signal" {
		t.Fatalf("expected signal event for B, got %+v", ev)
	}
	if string(ev.SignalData) != payload {
		t.Fatalf("payload altered in transit: %s", ev.SignalData)
	}

	// The sender gets nothing back: the next frame on A is the pong.
	waitProcessed(t, connA)
}

func TestMalformedMessagesErrorToSenderOnly(t *testing.T) {
	srv := newTestServer(t)

	connA := dialWS(t, srv)
	sendJSON(t, connA, map[string]any{"type": "join-room", "roomId": "r1", "userId": "A"})
	waitProcessed(t, connA)

	connB := dialWS(t, srv)

	// Missing roomId on signal.
	sendJSON(t, connB, map[string]any{"type": "signal", "signalData": json.RawMessage(`{"x":1}`)})
	if ev := readEvent(t, connB); ev.Type != "error" {
		t.Fatalf("expected error event for sender, got %+v", ev)
	}

	// Unknown event type.
	sendJSON(t, connB, map[string]any{"type": "mystery"})
	if ev := readEvent(t, connB); ev.Type != "error" {
		t.Fatalf("expected error event for unknown type, got %+v", ev)
	}

	// Missing userId on join.
	sendJSON(t, connB, map[string]any{"type": "join-room", "roomId": "r1"})
	if ev := readEvent(t, connB); ev.Type != "error" {
		t.Fatalf("expected error event for bad join, got %+v", ev)
	}

	// A saw none of it.
	waitProcessed(t, connA)
}
