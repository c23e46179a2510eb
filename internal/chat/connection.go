package chat

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer = 32
	writeWait  = 10 * time.Second
)

// Connection is one live websocket for one user
type Connection struct {
	ID     string
	UserID uint

	ws   *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Send queues a frame for delivery; drops it if the connection is backed up
func (c *Connection) Send(payload []byte) {
	select {
	case c.send <- payload:
	default:
	}
}

// ReadJSON reads the next JSON frame from the peer
func (c *Connection) ReadJSON(v interface{}) error {
	return c.ws.ReadJSON(v)
}

// Close unregisters the connection and closes the underlying socket
func (c *Connection) Close() {
	c.hub.Unregister(c.ID)
	c.ws.Close()
}

// writePump serializes all writes onto the websocket, which is not safe for
// concurrent writers
func (c *Connection) writePump() {
	for payload := range c.send {
		c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
