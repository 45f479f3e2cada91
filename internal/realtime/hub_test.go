package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamerent/internal/config"
)

func testRealtimeConfig(heartbeat time.Duration) config.RealtimeConfig {
	return config.RealtimeConfig{
		Path:              "/ws",
		HeartbeatInterval: heartbeat,
		WriteWait:         time.Second,
		MaxMessageSize:    4096,
		SendBufferSize:    8,
	}
}

// startHub runs a hub and an HTTP server that registers every upgraded
// connection with it.
func startHub(t *testing.T, heartbeat time.Duration) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(testRealtimeConfig(heartbeat))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn)
		hub.Register(client)
		go client.Serve()
	}))

	t.Cleanup(func() {
		cancel()
		server.Close()
	})

	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestHub_SendsConnectedOnRegister(t *testing.T) {
	_, server := startHub(t, time.Minute)
	conn := dial(t, server)

	ev := readEvent(t, conn)
	assert.Equal(t, EventConnected, ev.Type)
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub, server := startHub(t, time.Minute)

	conn1 := dial(t, server)
	conn2 := dial(t, server)
	assert.Equal(t, EventConnected, readEvent(t, conn1).Type)
	assert.Equal(t, EventConnected, readEvent(t, conn2).Type)

	hub.Broadcast(Event{Type: EventNewRental, Data: map[string]interface{}{"rentalNo": "RT42"}})

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		ev := readEvent(t, conn)
		assert.Equal(t, EventNewRental, ev.Type)
		data, ok := ev.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "RT42", data["rentalNo"])
	}
}

func TestHub_AnswersApplicationPing(t *testing.T) {
	_, server := startHub(t, time.Minute)
	conn := dial(t, server)
	assert.Equal(t, EventConnected, readEvent(t, conn).Type)

	require.NoError(t, conn.WriteJSON(Event{Type: EventPing}))

	ev := readEvent(t, conn)
	assert.Equal(t, EventPong, ev.Type)
}

func TestHub_MalformedMessageKeepsConnection(t *testing.T) {
	_, server := startHub(t, time.Minute)
	conn := dial(t, server)
	assert.Equal(t, EventConnected, readEvent(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	// the connection must survive the garbage
	require.NoError(t, conn.WriteJSON(Event{Type: EventPing}))
	assert.Equal(t, EventPong, readEvent(t, conn).Type)
}

func TestHub_ReapsSilentClient(t *testing.T) {
	_, server := startHub(t, 50*time.Millisecond)
	conn := dial(t, server)

	// never read: no pong replies reach the server, so the client misses the
	// probe and the second sweep terminates it
	deadline := time.Now().Add(3 * time.Second)
	conn.UnderlyingConn().SetReadDeadline(deadline)

	closed := false
	for time.Now().Before(deadline) {
		if _, err := conn.UnderlyingConn().Read(make([]byte, 256)); err != nil {
			closed = true
			break
		}
	}
	assert.True(t, closed, "expected the hub to close the silent connection")
}

func TestHub_LiveClientSurvivesSweeps(t *testing.T) {
	hub, server := startHub(t, 50*time.Millisecond)
	conn := dial(t, server)
	assert.Equal(t, EventConnected, readEvent(t, conn).Type)

	// broadcast only after several sweep cycles have passed
	go func() {
		time.Sleep(300 * time.Millisecond)
		hub.Broadcast(Event{Type: EventRentalStatusUpdated})
	}()

	// blocking read: the dialer answers transport pings automatically while
	// waiting, which keeps the alive flag set across sweeps
	ev := readEvent(t, conn)
	assert.Equal(t, EventRentalStatusUpdated, ev.Type)
}
