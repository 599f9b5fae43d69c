// Package websocket pushes session updates to connected browser clients.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
	sendBuffer     = 256
	broadcastQueue = 64
)

// DefaultTopic is the topic every new client is subscribed to.
const DefaultTopic = "session"

// Manager tracks websocket clients and fans messages out to them.
type Manager struct {
	clients    map[uuid.UUID]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	done       chan struct{}
	mu         sync.RWMutex
	logger     *zap.Logger
	upgrader   websocket.Upgrader
	// greeting, when set, is sent to every client right after it connects.
	greeting func() Message
}

// Client is a single websocket connection.
type Client struct {
	ID      uuid.UUID
	Conn    *websocket.Conn
	Manager *Manager
	Send    chan []byte

	mu     sync.RWMutex
	topics map[string]bool
}

// Message is the envelope of everything sent over the socket.
type Message struct {
	Type    string      `json:"type"`
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload"`
}

// NewManager creates a manager. allowedOrigins restricts the Origin header of upgrade
// requests; an empty list or "*" accepts any origin.
func NewManager(logger *zap.Logger, allowedOrigins []string) *Manager {
	m := &Manager{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, broadcastQueue),
		done:       make(chan struct{}),
		logger:     logger.Named("websocket"),
	}
	m.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return m
}

// SetGreeting registers the message sent to newly connected clients, e.g. the current state.
func (m *Manager) SetGreeting(f func() Message) {
	m.greeting = f
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return len(set) == 0 || origin == "" || set[origin]
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then closes every client.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(m.done)
			m.mu.Lock()
			for id, client := range m.clients {
				close(client.Send)
				delete(m.clients, id)
			}
			m.mu.Unlock()
			m.logger.Info("WebSocket manager stopped")
			return

		case client := <-m.register:
			m.mu.Lock()
			m.clients[client.ID] = client
			m.mu.Unlock()
			m.logger.Debug("Client connected", zap.String("clientId", client.ID.String()))

		case client := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[client.ID]; ok {
				close(client.Send)
				delete(m.clients, client.ID)
				m.logger.Debug("Client disconnected", zap.String("clientId", client.ID.String()))
			}
			m.mu.Unlock()

		case message := <-m.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				m.logger.Error("Failed to marshal websocket message", zap.String("type", message.Type), zap.Error(err))
				continue
			}

			m.mu.Lock()
			for id, client := range m.clients {
				if !client.IsSubscribed(message.Topic) {
					continue
				}
				select {
				case client.Send <- data:
				default:
					m.logger.Warn("Dropping slow client", zap.String("clientId", id.String()))
					close(client.Send)
					delete(m.clients, id)
				}
			}
			m.mu.Unlock()
		}
	}
}

// ClientCount returns the number of registered clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Broadcast queues a message for every client subscribed to topic. It never blocks; when the
// queue is full the message is dropped.
func (m *Manager) Broadcast(messageType, topic string, payload interface{}) {
	select {
	case m.broadcast <- Message{Type: messageType, Topic: topic, Payload: payload}:
	default:
		m.logger.Warn("Broadcast queue full, dropping message", zap.String("type", messageType), zap.String("topic", topic))
	}
}

// Handler upgrades requests to websocket connections.
func (m *Manager) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := m.upgrader.Upgrade(w, r, nil)
		if err != nil {
			m.logger.Warn("WebSocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			ID:      uuid.New(),
			Conn:    conn,
			Manager: m,
			Send:    make(chan []byte, sendBuffer),
			topics:  map[string]bool{DefaultTopic: true},
		}
		if m.greeting != nil {
			if data, err := json.Marshal(m.greeting()); err == nil {
				client.Send <- data
			}
		}

		select {
		case m.register <- client:
		case <-m.done:
			conn.Close()
			return
		}

		go client.readPump()
		go client.writePump()
	})
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.Manager.unregister <- c:
		case <-c.Manager.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Manager.logger.Warn("WebSocket read failed", zap.String("clientId", c.ID.String()), zap.Error(err))
			}
			return
		}

		var cmd struct {
			Action string `json:"action"`
			Topic  string `json:"topic"`
		}
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.Manager.logger.Debug("Ignoring malformed client command", zap.String("clientId", c.ID.String()), zap.Error(err))
			continue
		}

		switch cmd.Action {
		case "subscribe":
			c.Subscribe(cmd.Topic)
		case "unsubscribe":
			c.Unsubscribe(cmd.Topic)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Subscribe adds topic to the client's subscriptions.
func (c *Client) Subscribe(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics[topic] = true
}

// Unsubscribe removes topic from the client's subscriptions.
func (c *Client) Unsubscribe(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.topics, topic)
}

// IsSubscribed reports whether the client receives messages of topic.
func (c *Client) IsSubscribed(topic string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topics[topic]
}
