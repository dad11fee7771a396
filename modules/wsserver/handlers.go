package wsserver

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/example/chatroom-server/modules/chat"
	"github.com/example/chatroom-server/modules/presence"
)

// Handlers serves the WebSocket chat endpoint and the read-only directory
// API.
type Handlers struct {
	chatModule     *chat.Module
	presenceModule *presence.Module
	sessionCtx     context.Context
}

// NewHandlers creates a new handlers instance. sessionCtx is cancelled on
// module shutdown, which terminates every live session.
func NewHandlers(chatModule *chat.Module, presenceModule *presence.Module, sessionCtx context.Context) *Handlers {
	return &Handlers{
		chatModule:     chatModule,
		presenceModule: presenceModule,
		sessionCtx:     sessionCtx,
	}
}

// HandleWebSocket runs one chat session over an upgraded connection. The
// handler goroutine is the session's loop; a second goroutine pumps reads.
func (h *Handlers) HandleWebSocket(c *websocket.Conn) {
	transport := newWSTransport(c)
	defer transport.Close()
	go transport.readPump()

	session := h.chatModule.NewSession(transport)
	session.Run(h.sessionCtx)
}

// ListRooms handles GET /api/v1/rooms.
func (h *Handlers) ListRooms(c *fiber.Ctx) error {
	rooms := h.chatModule.Directory().ListRooms()
	return c.JSON(fiber.Map{
		"rooms": rooms,
		"total": len(rooms),
	})
}

// ListRoomMembers handles GET /api/v1/rooms/:name/members.
func (h *Handlers) ListRoomMembers(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Room name is required",
		})
	}

	if !h.chatModule.Directory().HasRoom(name) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Room not found",
		})
	}

	members := h.chatModule.Directory().ListMembers(name)
	return c.JSON(fiber.Map{
		"room":    name,
		"members": members,
		"total":   len(members),
	})
}

// ListUsers handles GET /api/v1/users.
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	users := h.chatModule.Names().Snapshot()
	return c.JSON(fiber.Map{
		"users": users,
		"total": len(users),
	})
}

// GetStats handles GET /api/v1/stats.
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	return c.JSON(h.presenceModule.Stats())
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "chatroom-server",
	})
}
