package reload

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// MessageType is the type of a reload message.
type MessageType string

const (
	TypeReload MessageType = "reload"
	TypeError  MessageType = "error"
	TypeClear  MessageType = "clear"
)

// Message is sent to browsers via websocket.
type Message struct {
	Type  MessageType `json:"type"`
	Error string      `json:"error,omitempty"`
	File  string      `json:"file,omitempty"`
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithCheckOrigin sets the websocket origin check. The default accepts
// same-host origins only.
func WithCheckOrigin(fn func(r *http.Request) bool) HubOption {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = fn
	}
}

// WithConnectHooks sets callbacks run when a client connects and
// disconnects.
func WithConnectHooks(onConnect, onDisconnect func()) HubOption {
	return func(h *Hub) {
		h.onConnect = onConnect
		h.onDisconnect = onDisconnect
	}
}

// WithLogger sets the hub logger.
func WithLogger(l *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = l
	}
}

// Hub manages the websocket connections of preview pages.
type Hub struct {
	clients  map[*websocket.Conn]*sync.Mutex
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger

	onConnect    func()
	onDisconnect func()
}

// NewHub creates a reload hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients: make(map[*websocket.Conn]*sync.Mutex),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "reload")
	return h
}

// ServeHTTP upgrades the request and keeps the connection registered until
// the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()
	if h.onConnect != nil {
		h.onConnect()
	}

	// Browsers never send; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	if !ok {
		return
	}
	conn.Close()
	if h.onDisconnect != nil {
		h.onDisconnect()
	}
}

// NotifyReload asks every client to reload the page.
func (h *Hub) NotifyReload() {
	h.Broadcast(Message{Type: TypeReload})
}

// NotifyError shows an error overlay on every client.
func (h *Hub) NotifyError(file, errMsg string) {
	h.Broadcast(Message{Type: TypeError, File: file, Error: errMsg})
}

// ClearError removes the error overlay on every client.
func (h *Hub) ClearError() {
	h.Broadcast(Message{Type: TypeClear})
}

var encodeMessage = func(msg Message) ([]byte, error) { return json.Marshal(msg) }

// Broadcast sends msg to all connected clients. Clients that fail the
// write are dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := encodeMessage(msg)
	if err != nil {
		h.logger.Debug("encode reload message", "type", msg.Type, "error", err)
		return
	}

	h.mu.RLock()
	type client struct {
		conn *websocket.Conn
		mu   *sync.Mutex
	}
	clients := make([]client, 0, len(h.clients))
	for conn, mu := range h.clients {
		clients = append(clients, client{conn, mu})
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		err := c.conn.WriteMessage(websocket.TextMessage, data)
		c.mu.Unlock()
		if err != nil {
			h.logger.Debug("dropping reload client", "error", err)
			h.remove(c.conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()
	for _, conn := range conns {
		h.remove(conn)
	}
}
