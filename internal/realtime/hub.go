package realtime

import (
	"context"
	"time"

	"gamerent/internal/config"
	"gamerent/internal/monitor"
	"gamerent/pkg/log"
)

// Hub maintains the registry of live connections and fans events out to
// them. All registry mutation happens inside Run's single loop, so register,
// deregister, broadcast and the liveness sweep never race each other.
//
// The hub never buffers across disconnects: delivery is at-most-once, to
// connections open at broadcast time.
type Hub struct {
	cfg config.RealtimeConfig

	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub creates a hub with the given channel configuration
func NewHub(cfg config.RealtimeConfig) *Hub {
	return &Hub{
		cfg:        cfg,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run drives the hub until ctx is cancelled. The liveness sweep runs on the
// heartbeat interval: a client that produced no inbound traffic since the
// previous sweep is terminated and dropped, everyone else gets a fresh probe.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.cfg.HeartbeatInterval)
	defer ticker.Stop()
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				c.terminate()
			}
			h.clients = make(map[*Client]struct{})
			monitor.SetActiveConnections(0)
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			monitor.SetActiveConnections(len(h.clients))
			log.WithField("clients", len(h.clients)).Info("WebSocket client registered")

			if msg, err := (Event{Type: EventConnected}).Marshal(); err == nil {
				c.enqueue(msg)
			}

		case c := <-h.unregister:
			h.drop(c)

		case msg := <-h.broadcast:
			for c := range h.clients {
				if !c.enqueue(msg) {
					// a client that cannot accept must not stall the rest
					h.drop(c)
				}
			}
			monitor.IncBroadcasts()

		case <-ticker.C:
			h.sweep()
		}
	}
}

// Broadcast serializes the event once and hands it to the fan-out loop.
// It never blocks the caller: when the hub is saturated the event is dropped
// and logged, matching the channel's best-effort contract.
func (h *Hub) Broadcast(event Event) {
	msg, err := event.Marshal()
	if err != nil {
		log.WithError(err).WithField("type", event.Type).Error("Failed to serialize event")
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		log.WithField("type", event.Type).Warn("Broadcast queue full, event dropped")
	}
}

// Register adds the connection to the active set. After the hub has shut
// down the client is terminated instead.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.terminate()
	}
}

// Deregister removes the connection from the active set; idempotent
func (h *Hub) Deregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// drop removes a client from the registry and tears it down. Safe to call
// for clients that are already gone.
func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.terminate()
	monitor.SetActiveConnections(len(h.clients))
}

// sweep reaps clients that missed the previous probe and probes the rest
func (h *Hub) sweep() {
	for c := range h.clients {
		if !c.consumeAlive() {
			log.Info("WebSocket client failed liveness probe, terminating")
			monitor.IncReapedConnections()
			h.drop(c)
			continue
		}
		c.probe(h.cfg.WriteWait)
	}
}
