// Package roster streams roster changes to connected websocket clients.
package roster

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vietanh2810/volunteer-api/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

var ErrHubClosed = errors.New("roster hub is closed")

type client struct {
	conn    *websocket.Conn
	send    chan domain.RosterChange
	eventID uint
}

// Hub fans roster changes out to the clients watching the changed event.
// Publish never blocks the caller: a change that cannot be queued is dropped,
// and a client too slow to keep up is disconnected.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[uint]map[*client]struct{}

	broadcast  chan domain.RosterChange
	register   chan *client
	unregister chan *client
	done       chan struct{}
}

// NewHub accepts websocket upgrades from allowedOrigins, or from any origin
// when the list is empty.
func NewHub(allowedOrigins []string) *Hub {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(origins) == 0 || origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
		clients:    make(map[uint]map[*client]struct{}),
		broadcast:  make(chan domain.RosterChange, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, watchers := range h.clients {
				for c := range watchers {
					close(c.send)
				}
			}
			h.clients = make(map[uint]map[*client]struct{})
			h.mu.Unlock()
			return
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.eventID] == nil {
				h.clients[c.eventID] = make(map[*client]struct{})
			}
			h.clients[c.eventID][c] = struct{}{}
			h.mu.Unlock()
		case c := <-h.unregister:
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()
		case change := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients[change.EventID] {
				select {
				case c.send <- change:
				default:
					h.remove(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(c *client) {
	watchers, ok := h.clients[c.eventID]
	if !ok {
		return
	}
	if _, ok = watchers[c]; !ok {
		return
	}

	delete(watchers, c)
	close(c.send)
	if len(watchers) == 0 {
		delete(h.clients, c.eventID)
	}
}

func (h *Hub) Publish(change domain.RosterChange) {
	select {
	case h.broadcast <- change:
	default:
		zap.L().Warn("roster change dropped",
			zap.Uint("event_id", change.EventID),
			zap.String("kind", change.Kind),
		)
	}
}

// Subscribers reports how many clients watch eventID.
func (h *Hub) Subscribers(eventID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[eventID])
}

// Serve upgrades the request and streams changes of eventID to it. It returns
// once the client is registered; the connection is served in the background.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, eventID uint) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		conn:    conn,
		send:    make(chan domain.RosterChange, sendBuffer),
		eventID: eventID,
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return ErrHubClosed
	}

	go c.writePump()
	go c.readPump(h)

	return nil
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case change, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(change); err != nil {
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

// readPump only watches for the client going away; the stream is one way.
func (c *client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("roster stream closed", zap.Uint("event_id", c.eventID), zap.Error(err))
			}
			return
		}
	}
}
