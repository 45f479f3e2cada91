package realtime

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"gamerent/pkg/log"
)

// Client wraps one live server-side connection. It carries no identity:
// a reconnecting browser registers as a brand-new client.
//
// The alive flag is set by any inbound traffic (data frames and pong control
// frames alike) and consumed by the hub's liveness sweep.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	send chan []byte
	done chan struct{}

	alive     atomic.Bool
	closeOnce sync.Once
}

// NewClient wraps an upgraded connection. Serve must be called to start the
// read and write pumps.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	c := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.cfg.SendBufferSize),
		done: make(chan struct{}),
	}
	c.alive.Store(true)
	return c
}

// Serve starts the write pump and runs the read pump on the calling
// goroutine. It returns when the connection is gone; deregistration has
// happened by then.
func (c *Client) Serve() {
	go c.writePump()
	c.readPump()
}

// enqueue hands a serialized message to the write pump without blocking.
// A false return means the client cannot keep up or is already closed.
func (c *Client) enqueue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// consumeAlive reads and clears the liveness flag
func (c *Client) consumeAlive() bool {
	return c.alive.Swap(false)
}

// probe sends a transport-level ping. WriteControl is safe to call
// concurrently with the write pump.
func (c *Client) probe(writeWait time.Duration) {
	if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
		log.WithError(err).Debug("Liveness probe write failed")
	}
}

// terminate force-closes the connection; idempotent
func (c *Client) terminate() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// readPump consumes inbound frames until the connection dies. Every frame
// marks the client alive; an application-level ping is answered with a pong.
// Malformed payloads are logged and skipped, they do not tear down the
// connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.Deregister(c)
		c.terminate()
	}()

	c.conn.SetReadLimit(c.hub.cfg.MaxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.alive.Store(true)
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).Debug("WebSocket read failed")
			}
			return
		}

		c.alive.Store(true)

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			log.WithError(err).Warn("Failed to parse WebSocket message")
			continue
		}

		if ev.Type == EventPing {
			if msg, err := (Event{Type: EventPong}).Marshal(); err == nil {
				c.enqueue(msg)
			}
		}
	}
}

// writePump drains the outbound queue onto the wire
func (c *Client) writePump() {
	defer c.conn.Close()

	for {
		select {
		case <-c.done:
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.hub.cfg.WriteWait))
			return

		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.WithError(err).Debug("WebSocket write failed")
				return
			}
		}
	}
}
