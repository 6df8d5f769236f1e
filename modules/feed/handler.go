package feed

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequireUpgrade rejects plain HTTP requests to the feed endpoint with 426.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler attaches each websocket connection to the hub until the client
// goes away. Incoming frames are read only to detect disconnects.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		sub := &Subscriber{ID: uuid.NewString(), Conn: c}
		h.Register(sub)
		defer h.Unregister(sub)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	})
}
