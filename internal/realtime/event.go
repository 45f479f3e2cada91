package realtime

import "encoding/json"

// Event types carried on the push channel.
const (
	// EventConnected acknowledges a successful registration
	EventConnected = "connected"

	// EventPing client-side liveness probe, answered with EventPong
	EventPing = "ping"

	// EventPong reply to EventPing, carries no payload
	EventPong = "pong"

	// EventNewRental a rental order was created
	EventNewRental = "NEW_RENTAL"

	// EventRentalStatusUpdated a rental order changed status
	EventRentalStatusUpdated = "RENTAL_STATUS_UPDATED"
)

// Event is the wire shape of every push message. Data carries the affected
// rental order for rental events and is empty for control events. Events are
// ephemeral; nothing on this channel is persisted or replayed.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Marshal serializes the event once for fan-out
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
