package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lorrc/ventsite/internal/core/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// Client message types
const (
	MessageSubscribe   = "SUBSCRIBE_DASHBOARD"
	MessageUnsubscribe = "UNSUBSCRIBE_DASHBOARD"
	MessagePing        = "PING"
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan domain.Event

	// User ID for this client.
	UserID uuid.UUID

	// Subscriptions holds the dashboard ranges this client follows.
	Subscriptions map[domain.TimeRange]bool

	pongWait   time.Duration
	pingPeriod time.Duration

	// sendMu guards Send against a send after close
	sendMu sync.Mutex
	closed bool

	// mu protects Subscriptions map
	mu sync.RWMutex

	logger *slog.Logger
}

// ClientConfig holds keep-alive timing. PingPeriod must be less than PongWait.
type ClientConfig struct {
	PongWait   time.Duration
	PingPeriod time.Duration
}

// DefaultClientConfig returns the keep-alive timing used when none is configured.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PongWait:   60 * time.Second,
		PingPeriod: 54 * time.Second,
	}
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, cfg ClientConfig, logger *slog.Logger) *Client {
	if cfg.PongWait <= 0 || cfg.PingPeriod <= 0 || cfg.PingPeriod >= cfg.PongWait {
		cfg = DefaultClientConfig()
	}
	return &Client{
		Hub:           hub,
		Conn:          conn,
		Send:          make(chan domain.Event, 16),
		UserID:        userID,
		Subscriptions: make(map[domain.TimeRange]bool),
		pongWait:      cfg.PongWait,
		pingPeriod:    cfg.PingPeriod,
		logger:        logger.With("user_id", userID.String()),
	}
}

// CloseSend safely closes the Send channel exactly once
func (c *Client) CloseSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// IsClosed reports whether the hub has closed this client's Send channel.
func (c *Client) IsClosed() bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.closed
}

// TrySend queues an event without blocking. It reports false when the
// buffer is full or the client is closed.
func (c *Client) TrySend(event domain.Event) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- event:
		return true
	default:
		return false
	}
}

func (c *Client) AddSubscription(r domain.TimeRange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Subscriptions[r] = true
}

func (c *Client) RemoveSubscription(r domain.TimeRange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Subscriptions, r)
}

func (c *Client) HasSubscription(r domain.TimeRange) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Subscriptions[r]
}

// GetSubscriptions returns a copy of all subscriptions
func (c *Client) GetSubscriptions() []domain.TimeRange {
	c.mu.RLock()
	defer c.mu.RUnlock()

	subs := make([]domain.TimeRange, 0, len(c.Subscriptions))
	for r := range c.Subscriptions {
		subs = append(subs, r)
	}
	return subs
}

// ReadPump pumps messages from the websocket connection to the hub.
// This method runs in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Detach(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			return
		}

		c.handleIncomingMessage(message)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
// This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The hub closed the channel.
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(event); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// ClientMessage is the structure for messages sent from the client.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SubscribePayload is the payload for subscribe/unsubscribe messages
type SubscribePayload struct {
	TimeRange string `json:"timeRange"`
}

func (c *Client) handleIncomingMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("failed to unmarshal client message", "error", err)
		return
	}

	switch msg.Type {
	case MessageSubscribe:
		if r, ok := c.parseRange(msg.Payload); ok {
			c.Hub.subscribe(c, r)
		}

	case MessageUnsubscribe:
		if r, ok := c.parseRange(msg.Payload); ok {
			c.Hub.unsubscribe(c, r)
		}

	case MessagePing:
		c.sendPong()

	default:
		c.logger.Debug("received unknown message type", "type", msg.Type)
	}
}

// parseRange accepts a missing payload as the default range.
func (c *Client) parseRange(payload json.RawMessage) (domain.TimeRange, bool) {
	var p SubscribePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			c.logger.Warn("failed to unmarshal subscription payload", "error", err)
			return "", false
		}
	}

	r, err := domain.ParseTimeRange(p.TimeRange)
	if err != nil {
		c.logger.Warn("invalid time range in subscription", "time_range", p.TimeRange)
		return "", false
	}
	return r, true
}

func (c *Client) sendPong() {
	// A full buffer already proves liveness; skip the pong.
	_ = c.TrySend(domain.Event{Type: domain.EventPong})
}
