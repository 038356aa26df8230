// Package realtime keeps live websocket channels keyed by user id and
// delivers events to them.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	ErrNoSubscribers = errors.New("no active channel for user")
	ErrSlowConsumer  = errors.New("all channels for user are saturated")
	ErrClosed        = errors.New("hub closed")
)

const (
	sendBuffer = 16
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{}
	closed   bool
	upgrader websocket.Upgrader
}

// NewHub builds a hub. An empty allowedOrigins list accepts same-origin
// requests and clients that send no Origin header.
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{clients: map[string]map[*client]struct{}{}}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			return strings.HasSuffix(origin, "://"+r.Host)
		}
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[strings.TrimRight(origin, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set["*"]
		if ok {
			return true
		}
		_, ok = set[origin]
		return ok
	}
}

// Publish sends an event to every open channel of userID without blocking.
func (h *Hub) Publish(_ context.Context, userID, event string, payload any) error {
	message, err := json.Marshal(Event{Name: event, Data: payload})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrClosed
	}
	subs := h.clients[userID]
	if len(subs) == 0 {
		return ErrNoSubscribers
	}
	delivered := 0
	for c := range subs {
		select {
		case c.send <- message:
			delivered++
		default:
		}
	}
	if delivered == 0 {
		return ErrSlowConsumer
	}
	return nil
}

func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// ServeWS upgrades the request and blocks until the connection ends.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{userID: userID, conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		return conn.Close()
	}

	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = map[*client]struct{}{}
	}
	h.clients[c.userID][c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if subs, ok := h.clients[c.userID]; ok {
		if _, ok := subs[c]; ok {
			delete(subs, c)
			c.close()
		}
		if len(subs) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
}

// readPump drains client frames so pongs and close frames are processed.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("realtime connection closed", "userId", c.userID, "err", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every client and rejects further publishes.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for userID, subs := range h.clients {
		for c := range subs {
			c.close()
		}
		delete(h.clients, userID)
	}
}
