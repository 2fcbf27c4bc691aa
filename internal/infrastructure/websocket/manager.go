package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fitlink/pkg/logger"
)

// Client represents a WebSocket connection client
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	// OnMessage handles inbound frames; wired by the handler layer.
	OnMessage func(data []byte)
	// OnClose runs once when the connection goes away; used to release
	// listeners held on behalf of this client.
	OnClose func()

	closeOnce sync.Once
}

// Manager manages all active WebSocket connections
type Manager struct {
	clients    map[string]*Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

// NewManager creates a new WebSocket connection manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Unregister:
				m.mutex.Lock()
				if current, ok := m.clients[client.UserID]; ok && current == client {
					delete(m.clients, client.UserID)
				}
				m.mutex.Unlock()
				client.shutdown()
				logger.Info("WebSocket client unregistered: %s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// RegisterClient makes the client routable. Synchronous: once it returns,
// SendToUser reaches this client, so listeners attached afterwards cannot
// lose their first delivery. A previous connection for the same user is
// shut down and replaced.
func (m *Manager) RegisterClient(client *Client) {
	m.mutex.Lock()
	if old, ok := m.clients[client.UserID]; ok {
		old.shutdown()
	}
	m.clients[client.UserID] = client
	m.mutex.Unlock()
	logger.Info("WebSocket client registered: %s", client.UserID)
}

// SendToUser sends a payload to a specific user if connected. Best effort:
// an absent or saturated client drops the payload.
func (m *Manager) SendToUser(userID string, payload []byte) {
	m.mutex.RLock()
	client, ok := m.clients[userID]
	m.mutex.RUnlock()

	if !ok {
		return
	}

	select {
	case client.Send <- payload:
	default:
		logger.Warn("Dropping WebSocket payload for slow client %s", userID)
	}
}

// SendEventToUser marshals an event envelope and sends it to a user.
func (m *Manager) SendEventToUser(userID string, eventType string, data interface{}) {
	payload, err := json.Marshal(Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("Failed to marshal %s event for user %s: %v", eventType, userID, err)
		return
	}
	m.SendToUser(userID, payload)
}

func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		if c.OnClose != nil {
			c.OnClose()
		}
		close(c.Send)
	})
}

// ReadPump reads frames from the WebSocket connection
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error for %s: %v", c.UserID, err)
			}
			break
		}

		if c.OnMessage != nil {
			c.OnMessage(data)
		}
	}
}

// WritePump sends queued payloads to the WebSocket connection
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		payload, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Warn("WebSocket write error for %s: %v", c.UserID, err)
			return
		}
	}
}
