package websocket

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/lorrc/ventsite/internal/core/domain"
	"github.com/lorrc/ventsite/internal/core/ports"
)

// ClientGauge tracks the number of connected clients.
type ClientGauge interface {
	Set(float64)
}

// Hub maintains the set of active Clients and broadcasts dashboard events
// to the clients subscribed to the event's time range.
type Hub struct {
	// Clients maps user IDs to their active connections
	// A single user can have multiple connections (multiple tabs/devices)
	clients map[uuid.UUID]map[*Client]bool

	// Rooms maps time ranges to subscribed clients
	rooms map[domain.TimeRange]map[*Client]bool

	// Broadcast channel for events
	broadcast chan domain.Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// done is closed when Run returns
	done chan struct{}

	// mu protects the clients and rooms maps
	mu sync.RWMutex

	gauge  ClientGauge
	logger *slog.Logger
}

var (
	_ ports.EventBroadcaster = (*Hub)(nil)
	_ ports.DashboardRooms   = (*Hub)(nil)
)

// NewHub creates a new WebSocket hub. gauge may be nil.
func NewHub(logger *slog.Logger, gauge ClientGauge) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		rooms:      make(map[domain.TimeRange]map[*Client]bool),
		broadcast:  make(chan domain.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		gauge:      gauge,
		logger:     logger.With("component", "websocket_hub"),
	}
}

// ErrBroadcastQueueFull is returned when an event is dropped because the
// hub's queue is full.
var ErrBroadcastQueueFull = errors.New("broadcast queue full")

// Broadcast queues an event for delivery. A full queue drops the event and
// returns ErrBroadcastQueueFull.
func (h *Hub) Broadcast(event domain.Event) error {
	select {
	case h.broadcast <- event:
		return nil
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
			"time_range", event.TimeRange,
		)
		return ErrBroadcastQueueFull
	}
}

// Run starts the hub's event loop and returns when ctx is cancelled, after
// closing every client's send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Done is closed once the event loop has stopped.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Attach registers a client unless the hub has stopped.
func (h *Hub) Attach(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Detach unregisters a client; it is a no-op once the hub has stopped.
func (h *Hub) Detach(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// ActiveTimeRanges returns the ranges with at least one subscriber, in a
// stable order.
func (h *Hub) ActiveTimeRanges() []domain.TimeRange {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ranges := make([]domain.TimeRange, 0, len(h.rooms))
	for r := range h.rooms {
		ranges = append(ranges, r)
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i] < ranges[j] })
	return ranges
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true
	h.updateGauge()

	h.logger.Info("client registered",
		"user_id", client.UserID,
		"total_connections", len(h.clients[client.UserID]),
	)
}

// unregisterClient removes a client from the hub and all rooms
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userClients, ok := h.clients[client.UserID]
	if !ok || !userClients[client] {
		return
	}
	delete(userClients, client)
	if len(userClients) == 0 {
		delete(h.clients, client.UserID)
	}

	for _, r := range client.GetSubscriptions() {
		h.leaveRoom(client, r)
	}

	client.CloseSend()
	h.updateGauge()

	h.logger.Info("client unregistered", "user_id", client.UserID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, userClients := range h.clients {
		for client := range userClients {
			client.CloseSend()
		}
	}
	h.clients = make(map[uuid.UUID]map[*Client]bool)
	h.rooms = make(map[domain.TimeRange]map[*Client]bool)
	h.updateGauge()
}

// broadcastEvent sends an event to all clients in the event's room
func (h *Hub) broadcastEvent(event domain.Event) {
	h.mu.RLock()
	room, ok := h.rooms[event.TimeRange]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Copy the client list to avoid holding the lock while sending
	clients := make([]*Client, 0, len(room))
	for client := range room {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"time_range", event.TimeRange,
		"client_count", len(clients),
	)

	for _, client := range clients {
		if !client.TrySend(event) {
			// Slow consumer. We are on the Run goroutine, so drop it directly.
			h.logger.Warn("client send buffer full, unregistering", "user_id", client.UserID)
			h.unregisterClient(client)
		}
	}
}

// subscribe adds a client to a time range room. A client the hub has
// already dropped stays out; unregisterClient closes Send under mu.
func (h *Hub) subscribe(client *Client, r domain.TimeRange) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.IsClosed() {
		h.logger.Debug("ignoring subscription from closed client", "user_id", client.UserID, "time_range", r)
		return
	}

	if h.rooms[r] == nil {
		h.rooms[r] = make(map[*Client]bool)
	}
	h.rooms[r][client] = true
	client.AddSubscription(r)

	h.logger.Debug("client subscribed to dashboard",
		"user_id", client.UserID,
		"time_range", r,
	)
}

// unsubscribe removes a client from a time range room
func (h *Hub) unsubscribe(client *Client, r domain.TimeRange) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveRoom(client, r)

	h.logger.Debug("client unsubscribed from dashboard",
		"user_id", client.UserID,
		"time_range", r,
	)
}

// leaveRoom must be called with mu held.
func (h *Hub) leaveRoom(client *Client, r domain.TimeRange) {
	if room, ok := h.rooms[r]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, r)
		}
	}
	client.RemoveSubscription(r)
}

// updateGauge must be called with mu held.
func (h *Hub) updateGauge() {
	if h.gauge == nil {
		return
	}
	count := 0
	for _, userClients := range h.clients {
		count += len(userClients)
	}
	h.gauge.Set(float64(count))
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, userClients := range h.clients {
		count += len(userClients)
	}
	return count
}

// GetRoomCount returns the number of active rooms
func (h *Hub) GetRoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// GetClientsInRoom returns the number of clients subscribed to a range
func (h *Hub) GetClientsInRoom(r domain.TimeRange) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[r])
}
