package presence

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/chatroom-server/events"
)

// Stats is a point-in-time snapshot of connection activity.
type Stats struct {
	Connected        int    `json:"connected"`
	PeakConnected    int    `json:"peak_connected"`
	TotalConnections uint64 `json:"total_connections"`
	RoomJoins        uint64 `json:"room_joins"`
	RoomLeaves       uint64 `json:"room_leaves"`
	UserRenames      uint64 `json:"user_renames"`
	RoomRenames      uint64 `json:"room_renames"`
}

// Module is an EventConsumerModule that tallies directory lifecycle events
// into activity counters.
type Module struct {
	mu     sync.Mutex
	stats  Stats
	logger types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new presence module.
func NewModule(logger types.Logger) *Module {
	return &Module{logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "presence"
}

// Start initializes the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Presence module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Presence module stopped", "totalConnections", m.Stats().TotalConnections)
	return nil
}

// Health returns the health status with current counters.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	stats := m.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected":         stats.Connected,
			"peak_connected":    stats.PeakConnected,
			"total_connections": stats.TotalConnections,
		},
	}
}

// RegisterEventConsumers registers handlers for the chat lifecycle events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserConnectedV1, m.handleUserConnected, m,
	); err != nil {
		return fmt.Errorf("failed to register UserConnected consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserDisconnectedV1, m.handleUserDisconnected, m,
	); err != nil {
		return fmt.Errorf("failed to register UserDisconnected consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserJoinedRoomV1, m.handleUserJoinedRoom, m,
	); err != nil {
		return fmt.Errorf("failed to register UserJoinedRoom consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserLeftRoomV1, m.handleUserLeftRoom, m,
	); err != nil {
		return fmt.Errorf("failed to register UserLeftRoom consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserRenamedV1, m.handleUserRenamed, m,
	); err != nil {
		return fmt.Errorf("failed to register UserRenamed consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.RoomRenamedV1, m.handleRoomRenamed, m,
	); err != nil {
		return fmt.Errorf("failed to register RoomRenamed consumer: %w", err)
	}

	m.logger.Info("Registered presence event consumers")
	return nil
}

// Stats returns a snapshot of the current counters.
func (m *Module) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Event handlers

func (m *Module) handleUserConnected(_ context.Context, _ events.UserConnectedEvent, _ *mono.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.Connected++
	m.stats.TotalConnections++
	if m.stats.Connected > m.stats.PeakConnected {
		m.stats.PeakConnected = m.stats.Connected
	}
	return nil
}

func (m *Module) handleUserDisconnected(_ context.Context, _ events.UserDisconnectedEvent, _ *mono.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stats.Connected > 0 {
		m.stats.Connected--
	}
	return nil
}

func (m *Module) handleUserJoinedRoom(_ context.Context, _ events.UserJoinedRoomEvent, _ *mono.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.RoomJoins++
	return nil
}

func (m *Module) handleUserLeftRoom(_ context.Context, _ events.UserLeftRoomEvent, _ *mono.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.RoomLeaves++
	return nil
}

func (m *Module) handleUserRenamed(_ context.Context, _ events.UserRenamedEvent, _ *mono.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.UserRenames++
	return nil
}

func (m *Module) handleRoomRenamed(_ context.Context, _ events.RoomRenamedEvent, _ *mono.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.RoomRenames++
	return nil
}
