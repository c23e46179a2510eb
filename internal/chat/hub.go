package chat

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub is the process-scoped registry of live websocket connections, keyed by
// connection id. It is created once and injected where needed; there is no
// package-level state. A user may hold several connections (multiple tabs or
// devices), so deliveries fan out to all of them.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*Connection          // connection id -> connection
	byUser map[uint]map[string]*Connection // user id -> their connections
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{
		conns:  make(map[string]*Connection),
		byUser: make(map[uint]map[string]*Connection),
	}
}

// Register wraps a websocket in a Connection, assigns it an id and starts its
// write pump. The caller owns the read loop.
func (h *Hub) Register(userID uint, ws *websocket.Conn) *Connection {
	conn := &Connection{
		ID:     uuid.NewString(),
		UserID: userID,
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
		hub:    h,
	}

	h.mu.Lock()
	h.conns[conn.ID] = conn
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[string]*Connection)
	}
	h.byUser[userID][conn.ID] = conn
	total := len(h.conns)
	h.mu.Unlock()

	go conn.writePump()
	log.Printf("Chat connection %s registered for user %d (%d total)", conn.ID, userID, total)
	return conn
}

// Unregister removes a connection from the registry and closes its send channel
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	conn, ok := h.conns[connID]
	if ok {
		delete(h.conns, connID)
		if userConns := h.byUser[conn.UserID]; userConns != nil {
			delete(userConns, connID)
			if len(userConns) == 0 {
				delete(h.byUser, conn.UserID)
			}
		}
		close(conn.send)
	}
	h.mu.Unlock()

	if ok {
		log.Printf("Chat connection %s unregistered for user %d", connID, conn.UserID)
	}
}

// SendToUser delivers a payload to every live connection of a user. Returns
// the number of connections reached; zero means the user is offline.
func (h *Hub) SendToUser(userID uint, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, conn := range h.byUser[userID] {
		select {
		case conn.send <- payload:
			delivered++
		default:
			// Slow consumer; drop the frame rather than block the hub
		}
	}
	return delivered
}

// OnlineCount returns the number of live connections
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
