package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, hub *Hub, userID string) (*httptest.Server, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r, userID)
	}))
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitForSubscribers(t *testing.T, hub *Hub, userID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Subscribers(userID) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d subscribers for %s, got %d", want, userID, hub.Subscribers(userID))
}

func TestPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub(nil)
	err := hub.Publish(context.Background(), "u1", "new_notification", map[string]string{"id": "n1"})
	if !errors.Is(err, ErrNoSubscribers) {
		t.Fatalf("expected ErrNoSubscribers, got %v", err)
	}
}

func TestPublishDeliversToConnectedUser(t *testing.T) {
	hub := NewHub(nil)
	t.Cleanup(hub.Close)
	_, url := newTestServer(t, hub, "u1")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitForSubscribers(t, hub, "u1", 1)

	if err := hub.Publish(context.Background(), "u1", "unread_count", map[string]int{"count": 3}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var evt struct {
		Event string         `json:"event"`
		Data  map[string]int `json:"data"`
	}
	if err := json.Unmarshal(raw, &evt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if evt.Event != "unread_count" || evt.Data["count"] != 3 {
		t.Fatalf("unexpected event %+v", evt)
	}

	if err := hub.Publish(context.Background(), "u2", "unread_count", nil); !errors.Is(err, ErrNoSubscribers) {
		t.Fatalf("expected other users to have no channel, got %v", err)
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	hub := NewHub(nil)
	t.Cleanup(hub.Close)
	_, url := newTestServer(t, hub, "u1")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitForSubscribers(t, hub, "u1", 1)
	_ = conn.Close()
	waitForSubscribers(t, hub, "u1", 0)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.example.com/"})
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://app.example.com")
	if !check(req) {
		t.Fatal("expected configured origin to pass")
	}
	req.Header.Set("Origin", "https://evil.example.com")
	if check(req) {
		t.Fatal("expected unknown origin to be rejected")
	}

	sameOrigin := originChecker(nil)
	req = httptest.NewRequest(http.MethodGet, "http://api.example.com/ws", nil)
	req.Header.Set("Origin", "http://api.example.com")
	if !sameOrigin(req) {
		t.Fatal("expected same origin to pass")
	}
}
