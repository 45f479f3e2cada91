package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"gamerent/pkg/log"
)

// AgentState reconnection agent lifecycle state
type AgentState int32

// Agent states. Exhausted is terminal: the backoff sequence ran out without
// a successful connection.
const (
	AgentDisconnected AgentState = iota
	AgentConnecting
	AgentConnected
	AgentExhausted
)

// String implements fmt.Stringer
func (s AgentState) String() string {
	switch s {
	case AgentConnecting:
		return "connecting"
	case AgentConnected:
		return "connected"
	case AgentExhausted:
		return "exhausted"
	default:
		return "disconnected"
	}
}

// reconnectDelays is the fixed backoff sequence, consulted by attempt index.
// A successful connection resets the index, so a brief blip does not
// escalate the next delay.
var reconnectDelays = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	5 * time.Second,
	10 * time.Second,
	30 * time.Second,
}

// agentHeartbeatInterval application-level heartbeat period while connected
const agentHeartbeatInterval = 30 * time.Second

// Agent maintains one logical subscription to the push channel across any
// number of physical connections. Inbound pong replies are filtered out;
// every other well-formed event is delivered on Events. Malformed payloads
// are logged and discarded without dropping the connection.
type Agent struct {
	url    string
	dialer *websocket.Dialer

	events chan Event

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	conn  *websocket.Conn
	state AgentState

	closeOnce sync.Once
	stopped   chan struct{}
}

// NewAgent creates an agent for the given WebSocket URL
func NewAgent(url string) *Agent {
	ctx, cancel := context.WithCancel(context.Background())
	return &Agent{
		url:     url,
		dialer:  websocket.DefaultDialer,
		events:  make(chan Event, 16),
		ctx:     ctx,
		cancel:  cancel,
		state:   AgentDisconnected,
		stopped: make(chan struct{}),
	}
}

// Start begins connecting in the background
func (a *Agent) Start() {
	go a.run()
}

// Events returns the stream of received notification events. The newest
// event wins when the consumer falls behind.
func (a *Agent) Events() <-chan Event {
	return a.events
}

// State returns the current lifecycle state
func (a *Agent) State() AgentState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Close tears the agent down: the heartbeat stops, any pending reconnect is
// cancelled and the transport is closed if open. Safe to call from any
// state, any number of times.
func (a *Agent) Close() {
	a.closeOnce.Do(func() {
		a.cancel()
		a.mu.Lock()
		if a.conn != nil {
			a.conn.Close()
		}
		a.mu.Unlock()
	})
	<-a.stopped
}

// Done is closed once the agent has fully stopped, either by Close or by
// exhausting the backoff sequence.
func (a *Agent) Done() <-chan struct{} {
	return a.stopped
}

func (a *Agent) setState(s AgentState) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

func (a *Agent) setConn(conn *websocket.Conn) {
	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()
}

// run drives the connect/serve/backoff cycle until teardown or exhaustion
func (a *Agent) run() {
	defer close(a.stopped)

	attempt := 0
	for {
		if a.ctx.Err() != nil {
			a.setState(AgentDisconnected)
			return
		}

		a.setState(AgentConnecting)
		conn, _, err := a.dialer.DialContext(a.ctx, a.url, nil)
		if err == nil {
			log.WithField("url", a.url).Info("WebSocket connected")
			attempt = 0
			a.setConn(conn)
			a.setState(AgentConnected)
			a.serve(conn)
			a.setConn(nil)
			log.Info("WebSocket disconnected")
		}

		if a.ctx.Err() != nil {
			a.setState(AgentDisconnected)
			return
		}
		a.setState(AgentDisconnected)

		if attempt >= len(reconnectDelays) {
			a.setState(AgentExhausted)
			log.Error("Max reconnection attempts reached")
			return
		}

		delay := reconnectDelays[attempt]
		attempt++
		log.WithFields(map[string]interface{}{
			"attempt": attempt,
			"delay":   delay.String(),
		}).Info("Reconnecting")

		select {
		case <-time.After(delay):
		case <-a.ctx.Done():
			a.setState(AgentDisconnected)
			return
		}
	}
}

// serve pumps one physical connection: a heartbeat goroutine sends an
// application-level ping every 30s, the read loop delivers events upward.
// Returns once the connection is gone.
func (a *Agent) serve(conn *websocket.Conn) {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(agentHeartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-a.ctx.Done():
				return
			case <-ticker.C:
				msg, _ := (Event{Type: EventPing}).Marshal()
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					conn.Close()
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			log.WithError(err).Warn("Failed to parse WebSocket message")
			continue
		}

		// heartbeat replies carry nothing of interest
		if ev.Type == EventPong {
			continue
		}

		a.deliver(ev)
	}
}

// deliver pushes an event to the consumer, evicting the oldest buffered
// event when the consumer is behind
func (a *Agent) deliver(ev Event) {
	for {
		select {
		case a.events <- ev:
			return
		default:
			select {
			case <-a.events:
			default:
			}
		}
	}
}
