package traffic

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTrafficServer(t *testing.T, messages []string, connects *atomic.Int32) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/traffic" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		connects.Add(1)
		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		// Drop the connection to force a reconnect.
	}))
	t.Cleanup(srv.Close)
	return srv
}

func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", d)
}

func TestClientFeedsStoreAndReconnects(t *testing.T) {
	var connects atomic.Int32
	srv := newTrafficServer(t, []string{
		`{"Icao_addr": 11256099, "Tail": "N1", "Lat": 47.5, "Lng": -122.1, "Position_valid": true, "Alt": 4500, "Distance": 1000, "Bearing": 10, "BearingDist_valid": true}`,
		`garbage`,
		`{"Icao_addr": 11256100, "Tail": "N2", "Position_valid": false}`,
	}, &connects)

	store := NewStore(StoreConfig{})
	c, err := NewClient(ClientConfig{
		Address:    strings.TrimPrefix(srv.URL, "http://"),
		MinBackoff: 10 * time.Millisecond,
		MaxBackoff: 20 * time.Millisecond,
	}, store, testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	waitFor(t, 2*time.Second, func() bool { return connects.Load() >= 2 })
	waitFor(t, 2*time.Second, func() bool { return store.Len() == 2 })

	got := store.WithPosition()
	if len(got) != 1 || got[0].Tail != "N1" {
		t.Fatalf("positioned=%+v", got)
	}
	snap := c.Snapshot()
	if snap.Messages < 2 || snap.Rejected < 1 || snap.Reconnects < 1 {
		t.Fatalf("snapshot=%+v", snap)
	}
	if !strings.HasSuffix(snap.URL, "/traffic") || !strings.HasPrefix(snap.URL, "ws://") {
		t.Fatalf("url=%q", snap.URL)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestClientRunTwiceFails(t *testing.T) {
	c, err := NewClient(ClientConfig{Address: "127.0.0.1:1"}, NewStore(StoreConfig{}), testLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := c.Run(ctx); err == nil {
		t.Fatalf("expected error on second Run")
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(ClientConfig{}, NewStore(StoreConfig{}), nil); err == nil {
		t.Fatalf("expected address error")
	}
	if _, err := NewClient(ClientConfig{Address: "x"}, nil, nil); err == nil {
		t.Fatalf("expected store error")
	}
}
