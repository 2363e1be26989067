package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection with the hub and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, handler FrameHandler) {
	client := NewClient(hub, c, uuid.NewString())
	if !hub.Register(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump(handler, hub.logger)
}
