package domain

// EventType defines the type of real-time event.
type EventType string

const (
	EventDashboardUpdated EventType = "DASHBOARD_UPDATED"
	EventPong             EventType = "PONG"
)

// Event is the payload sent over WebSocket.
type Event struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	TimeRange TimeRange   `json:"timeRange,omitempty"` // Used for routing to dashboard "rooms"
}
