package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"

	"github.com/example/chatroom-server/events"
)

// Module owns the process-wide name registry and room directory, hands out
// sessions bound to them, and bridges directory lifecycle notifications
// onto the event bus.
type Module struct {
	directory *Directory
	names     *NameRegistry
	eventBus  mono.EventBus
	logger    types.Logger
	keepalive time.Duration
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ EventSink                  = (*Module)(nil)
)

// NewModule creates the chat module with empty registries.
func NewModule(logger types.Logger) (*Module, error) {
	source, err := NewNameSource()
	if err != nil {
		return nil, fmt.Errorf("failed to build name source: %w", err)
	}
	return &Module{
		directory: NewDirectory(),
		names:     NewNameRegistry(source),
		logger:    logger,
		keepalive: defaultKeepalive,
	}, nil
}

// Name returns the module name.
func (m *Module) Name() string {
	return "chat"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.UserConnectedV1.ToBase(),
		events.UserDisconnectedV1.ToBase(),
		events.UserJoinedRoomV1.ToBase(),
		events.UserLeftRoomV1.ToBase(),
		events.UserRenamedV1.ToBase(),
		events.RoomRenamedV1.ToBase(),
	}
}

// Start initializes the module. Rooms are created lazily by joining
// sessions, so there is nothing to seed.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Chat module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Chat module stopped", "connectedUsers", len(m.names.Snapshot()))
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"rooms":            len(m.directory.ListRooms()),
			"connected_users":  len(m.names.Snapshot()),
			"dropped_messages": m.directory.DroppedMessages(),
		},
	}
}

// Directory exposes the room directory for read-only queries.
func (m *Module) Directory() *Directory {
	return m.directory
}

// Names exposes the name registry for read-only queries.
func (m *Module) Names() *NameRegistry {
	return m.names
}

// NewSession builds a session bound to transport, sharing the process-wide
// registries.
func (m *Module) NewSession(transport Transport) *Session {
	return NewSession(SessionConfig{
		ID:        uuid.New().String(),
		Transport: transport,
		Names:     m.names,
		Directory: m.directory,
		Events:    m,
		Logger:    m.logger,
		Keepalive: m.keepalive,
	})
}

// EventSink implementation. Publishing is best-effort; a failed publish
// never disturbs the session that triggered it.

func (m *Module) UserConnected(username string) {
	m.publish("UserConnected", func() error {
		return events.UserConnectedV1.Publish(m.eventBus, events.UserConnectedEvent{
			Username:  username,
			Timestamp: time.Now(),
		}, nil)
	})
}

func (m *Module) UserDisconnected(username, room string) {
	m.publish("UserDisconnected", func() error {
		return events.UserDisconnectedV1.Publish(m.eventBus, events.UserDisconnectedEvent{
			Username:  username,
			Room:      room,
			Timestamp: time.Now(),
		}, nil)
	})
}

func (m *Module) UserJoinedRoom(room, username string) {
	m.publish("UserJoinedRoom", func() error {
		return events.UserJoinedRoomV1.Publish(m.eventBus, events.UserJoinedRoomEvent{
			Room:      room,
			Username:  username,
			Timestamp: time.Now(),
		}, nil)
	})
}

func (m *Module) UserLeftRoom(room, username string) {
	m.publish("UserLeftRoom", func() error {
		return events.UserLeftRoomV1.Publish(m.eventBus, events.UserLeftRoomEvent{
			Room:      room,
			Username:  username,
			Timestamp: time.Now(),
		}, nil)
	})
}

func (m *Module) UserRenamed(room, oldName, newName string) {
	m.publish("UserRenamed", func() error {
		return events.UserRenamedV1.Publish(m.eventBus, events.UserRenamedEvent{
			Room:      room,
			OldName:   oldName,
			NewName:   newName,
			Timestamp: time.Now(),
		}, nil)
	})
}

func (m *Module) RoomRenamed(oldName, newName string) {
	m.publish("RoomRenamed", func() error {
		return events.RoomRenamedV1.Publish(m.eventBus, events.RoomRenamedEvent{
			OldName:   oldName,
			NewName:   newName,
			Timestamp: time.Now(),
		}, nil)
	})
}

func (m *Module) publish(name string, fn func() error) {
	if m.eventBus == nil {
		return
	}
	if err := fn(); err != nil {
		m.logger.Warn("Failed to publish event", "event", name, "error", err)
	}
}
