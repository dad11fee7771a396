package presence

import (
	"context"
	"testing"

	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/chatroom-server/events"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)         {}
func (m *mockLogger) Info(msg string, args ...any)          {}
func (m *mockLogger) Warn(msg string, args ...any)          {}
func (m *mockLogger) Error(msg string, args ...any)         {}
func (m *mockLogger) With(args ...any) types.Logger         { return m }
func (m *mockLogger) WithError(err error) types.Logger      { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

func TestModule_Name(t *testing.T) {
	m := NewModule(&mockLogger{})

	if name := m.Name(); name != "presence" {
		t.Errorf("Name() = %q, want 'presence'", name)
	}
}

func TestModule_StartStop(t *testing.T) {
	m := NewModule(&mockLogger{})
	ctx := context.Background()

	if err := m.Start(ctx); err != nil {
		t.Errorf("Start() error = %v", err)
	}
	if err := m.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestModule_ConnectionCounters(t *testing.T) {
	m := NewModule(&mockLogger{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := m.handleUserConnected(ctx, events.UserConnectedEvent{}, nil); err != nil {
			t.Fatalf("handleUserConnected() error = %v", err)
		}
	}
	if err := m.handleUserDisconnected(ctx, events.UserDisconnectedEvent{}, nil); err != nil {
		t.Fatalf("handleUserDisconnected() error = %v", err)
	}

	stats := m.Stats()
	if stats.Connected != 2 {
		t.Errorf("Connected = %d, want 2", stats.Connected)
	}
	if stats.PeakConnected != 3 {
		t.Errorf("PeakConnected = %d, want 3", stats.PeakConnected)
	}
	if stats.TotalConnections != 3 {
		t.Errorf("TotalConnections = %d, want 3", stats.TotalConnections)
	}
}

func TestModule_DisconnectNeverGoesNegative(t *testing.T) {
	m := NewModule(&mockLogger{})
	ctx := context.Background()

	_ = m.handleUserDisconnected(ctx, events.UserDisconnectedEvent{}, nil)

	if got := m.Stats().Connected; got != 0 {
		t.Errorf("Connected = %d, want 0", got)
	}
}

func TestModule_ActivityCounters(t *testing.T) {
	m := NewModule(&mockLogger{})
	ctx := context.Background()

	_ = m.handleUserJoinedRoom(ctx, events.UserJoinedRoomEvent{}, nil)
	_ = m.handleUserJoinedRoom(ctx, events.UserJoinedRoomEvent{}, nil)
	_ = m.handleUserLeftRoom(ctx, events.UserLeftRoomEvent{}, nil)
	_ = m.handleUserRenamed(ctx, events.UserRenamedEvent{}, nil)
	_ = m.handleRoomRenamed(ctx, events.RoomRenamedEvent{}, nil)

	stats := m.Stats()
	if stats.RoomJoins != 2 {
		t.Errorf("RoomJoins = %d, want 2", stats.RoomJoins)
	}
	if stats.RoomLeaves != 1 {
		t.Errorf("RoomLeaves = %d, want 1", stats.RoomLeaves)
	}
	if stats.UserRenames != 1 {
		t.Errorf("UserRenames = %d, want 1", stats.UserRenames)
	}
	if stats.RoomRenames != 1 {
		t.Errorf("RoomRenames = %d, want 1", stats.RoomRenames)
	}
}

func TestModule_Health(t *testing.T) {
	m := NewModule(&mockLogger{})
	ctx := context.Background()
	_ = m.handleUserConnected(ctx, events.UserConnectedEvent{}, nil)

	health := m.Health(ctx)
	if !health.Healthy {
		t.Error("expected healthy status")
	}
	if got := health.Details["connected"]; got != 1 {
		t.Errorf("connected detail = %v, want 1", got)
	}
}
