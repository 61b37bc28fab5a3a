package stream

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/physics"
)

func TestEncodeDecode(t *testing.T) {
	f := dynamo.Frame{Version: 42, Positions: []float32{1, 2, 3, -0.5, 4.25, 0}}

	buf := Encode(f)
	if len(buf) != 12+6*4 {
		t.Fatalf("expected 36 bytes, got %d", len(buf))
	}
	// Version 42 little endian, then count 2.
	if buf[0] != 42 || buf[8] != 2 {
		t.Errorf("unexpected header % x", buf[:12])
	}

	got, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != 42 || len(got.Positions) != 6 {
		t.Fatalf("unexpected frame %+v", got)
	}
	for i, v := range f.Positions {
		if got.Positions[i] != v {
			t.Errorf("component %d: got %v, want %v", i, got.Positions[i], v)
		}
	}
}

func TestDecodeRejectsTruncated(t *testing.T) {
	buf := Encode(dynamo.Frame{Version: 1, Positions: []float32{1, 2, 3}})
	if _, err := Decode(buf[:len(buf)-1]); err == nil {
		t.Error("expected error for truncated payload")
	}
	if _, err := Decode(buf[:5]); err == nil {
		t.Error("expected error for truncated header")
	}
}

func newTestHub() *Hub {
	return NewHub(log.New(io.Discard))
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubDeliversFrames(t *testing.T) {
	hub := newTestHub()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv)
	defer conn.Close()
	waitFor(t, func() bool { return hub.Clients() == 1 })

	sys := physics.New(4, 5, 9.81, 0.8, physics.WithSeed(2), physics.WithSink(hub))
	sys.Step(1.0 / 60)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	mt, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if mt != websocket.BinaryMessage {
		t.Errorf("expected binary message, got %d", mt)
	}

	f, err := Decode(msg)
	if err != nil {
		t.Fatal(err)
	}
	if f.Version != 1 || f.Count() != 4 {
		t.Errorf("unexpected frame version=%d count=%d", f.Version, f.Count())
	}
	for i, v := range sys.Positions() {
		if f.Positions[i] != v {
			t.Fatalf("component %d: got %v, want %v", i, f.Positions[i], v)
		}
	}
	if hub.Published() != 1 {
		t.Errorf("expected 1 published frame, got %d", hub.Published())
	}
}

func TestHubDropsForSlowClient(t *testing.T) {
	hub := newTestHub()
	c := &client{send: make(chan []byte, 1)}
	hub.clients[c] = struct{}{}

	f := dynamo.Frame{Version: 1, Positions: []float32{0, 0, 0}}
	hub.Publish(f)
	hub.Publish(f)
	hub.Publish(f)

	if hub.Dropped() != 2 {
		t.Errorf("expected 2 drops, got %d", hub.Dropped())
	}
	if len(c.send) != 1 {
		t.Errorf("expected one queued frame, got %d", len(c.send))
	}
}

func TestHubClose(t *testing.T) {
	hub := newTestHub()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	waitFor(t, func() bool { return hub.Clients() == 1 })

	if err := hub.Close(); err != nil {
		t.Fatal(err)
	}
	if hub.Clients() != 0 {
		t.Errorf("expected no clients after close, got %d", hub.Clients())
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("expected going-away close, got %v", err)
	}

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 after close, got %d", resp.StatusCode)
	}

	// Publishing after close is a no-op.
	hub.Publish(dynamo.Frame{Positions: []float32{0, 0, 0}})
}
