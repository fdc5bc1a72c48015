package gateway

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"trading-dashboardv1/internal/auth"
	"trading-dashboardv1/internal/metrics"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is a single WebSocket peer, pinned to the owner whose token
// authenticated the upgrade request.
type Client struct {
	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
	ownerID string
}

// Hub fans portfolio summary snapshots out to connected dashboards on a
// fixed interval. One snapshot per owner per tick; owners with several
// tabs open share the computation.
type Hub struct {
	eng      Engine
	met      *metrics.Metrics
	interval time.Duration

	mu      sync.RWMutex
	clients map[*Client]bool
}

// NewHub creates a hub pushing snapshots every interval.
func NewHub(eng Engine, met *metrics.Metrics, interval time.Duration) *Hub {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Hub{
		eng:      eng,
		met:      met,
		interval: interval,
		clients:  make(map[*Client]bool),
	}
}

// HandleWS upgrades an authenticated HTTP request to WebSocket and
// registers the client. The auth middleware has already run.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.OwnerID(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[gateway] ws upgrade: %v", err)
		return
	}

	client := &Client{
		conn:    conn,
		send:    make(chan []byte, 16),
		hub:     h,
		ownerID: ownerID,
	}

	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()
	if h.met != nil {
		h.met.WSClients.Set(float64(count))
	}
	log.Printf("[gateway] ws client connected owner=%s (%d total)", ownerID, count)

	go client.writePump()
	go client.readPump()

	// Push an initial snapshot so the dashboard renders without waiting
	// for the first tick.
	if env, err := h.snapshotFor(r.Context(), ownerID); err == nil {
		h.sendTo(client, env)
	}
}

// RemoveClient unregisters a client and closes its send channel.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	count := len(h.clients)
	h.mu.Unlock()
	if h.met != nil {
		h.met.WSClients.Set(float64(count))
	}
}

// ClientCount returns the number of connected WS clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run pushes summary snapshots to all clients until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.pushSnapshots(ctx)
		}
	}
}

func (h *Hub) pushSnapshots(ctx context.Context) {
	h.mu.RLock()
	owners := make(map[string]bool)
	for c := range h.clients {
		owners[c.ownerID] = true
	}
	h.mu.RUnlock()

	for ownerID := range owners {
		env, err := h.snapshotFor(ctx, ownerID)
		if err != nil {
			log.Printf("[gateway] snapshot owner=%s: %v", ownerID, err)
			continue
		}
		// Hold the read lock across the sends. A send channel is only
		// closed under the write lock together with removal from the
		// client set, so every client seen here has an open channel.
		h.mu.RLock()
		for c := range h.clients {
			if c.ownerID != ownerID {
				continue
			}
			// Non-blocking: a slow consumer drops ticks rather than
			// stalling the hub.
			select {
			case c.send <- env:
			default:
			}
		}
		h.mu.RUnlock()
	}
}

// sendTo delivers one envelope to a single client, skipping it if it was
// removed in the meantime. The membership check under the read lock is
// what keeps the send off a closed channel.
func (h *Hub) sendTo(c *Client, env []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- env:
	default:
	}
}

func (h *Hub) snapshotFor(ctx context.Context, ownerID string) ([]byte, error) {
	summary, err := h.eng.GetSummary(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]interface{}{
		"type":    "summary",
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"summary": toSummaryOut(summary),
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.RemoveClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// The dashboard never sends data; the read loop exists to service
	// pongs and detect disconnects.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
