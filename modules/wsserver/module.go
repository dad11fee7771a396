package wsserver

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/chatroom-server/modules/chat"
	"github.com/example/chatroom-server/modules/presence"
)

// Module hosts the chat transport: the /ws WebSocket endpoint where
// sessions live, plus a read-only REST view of the directory.
type Module struct {
	app            *fiber.App
	handlers       *Handlers
	addr           string
	chatModule     *chat.Module
	presenceModule *presence.Module
	logger         types.Logger
	cancelSessions context.CancelFunc
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new WebSocket server module.
func NewModule(addr string, chatModule *chat.Module, presenceModule *presence.Module, moduleLogger types.Logger) *Module {
	return &Module{
		addr:           addr,
		chatModule:     chatModule,
		presenceModule: presenceModule,
		logger:         moduleLogger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "ws-server"
}

// Start initializes and starts the server.
func (m *Module) Start(_ context.Context) error {
	sessionCtx, cancel := context.WithCancel(context.Background())
	m.cancelSessions = cancel

	m.app = m.buildApp(sessionCtx)

	// Start server in goroutine with startup error detection
	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		cancel()
		return fmt.Errorf("WebSocket server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("WebSocket server started", "addr", m.addr)
	return nil
}

// Stop terminates every live session and shuts down the server.
func (m *Module) Stop(ctx context.Context) error {
	if m.cancelSessions != nil {
		m.cancelSessions()
	}
	if m.app != nil {
		if err := m.app.ShutdownWithContext(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}
	m.logger.Info("WebSocket server stopped")
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

// buildApp assembles the Fiber app with all routes. Split out from Start so
// tests can exercise the REST surface without binding a port.
func (m *Module) buildApp(sessionCtx context.Context) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "chatroom-server",
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
	}))

	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:8080"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	m.handlers = NewHandlers(m.chatModule, m.presenceModule, sessionCtx)

	app.Get("/health", m.handlers.HealthCheck)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(m.handlers.HandleWebSocket))

	api := app.Group("/api/v1")
	api.Get("/rooms", m.handlers.ListRooms)
	api.Get("/rooms/:name/members", m.handlers.ListRoomMembers)
	api.Get("/users", m.handlers.ListUsers)
	api.Get("/stats", m.handlers.GetStats)

	return app
}

// errorHandler handles errors globally.
func (m *Module) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	m.logger.Error("HTTP error", "code", code, "message", message, "error", err)

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
