package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-monolith/mono/pkg/types"

	domain "github.com/example/chatroom-server/domain/chat"
)

// defaultKeepalive is the interval between liveness probes on an idle
// connection. Go tickers skip missed ticks rather than bursting to catch
// up, which is the wanted behavior.
const defaultKeepalive = 15 * time.Second

// Session drives one connection. It owns the connection's display name,
// current room, and room subscription, and multiplexes inbound commands
// against outbound broadcasts and keepalive ticks, handling exactly one
// event per loop iteration.
type Session struct {
	id        string
	transport Transport
	names     *NameRegistry
	directory *Directory
	events    EventSink
	logger    types.Logger
	keepalive time.Duration

	name string
	room string
	sub  *Subscription

	cleanup sync.Once
}

// SessionConfig carries the collaborators a Session needs. Events and
// Keepalive are optional and get defaults.
type SessionConfig struct {
	ID        string
	Transport Transport
	Names     *NameRegistry
	Directory *Directory
	Events    EventSink
	Logger    types.Logger
	Keepalive time.Duration
}

// NewSession builds a session around an established transport. The session
// does not touch the registries until Run.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Events == nil {
		cfg.Events = nopSink{}
	}
	if cfg.Keepalive <= 0 {
		cfg.Keepalive = defaultKeepalive
	}
	return &Session{
		id:        cfg.ID,
		transport: cfg.Transport,
		names:     cfg.Names,
		directory: cfg.Directory,
		events:    cfg.Events,
		logger:    cfg.Logger,
		keepalive: cfg.Keepalive,
	}
}

// Run executes the session until the peer disconnects, the client sends
// /quit, a write fails, or ctx is cancelled. The termination sequence runs
// exactly once on every exit path.
func (s *Session) Run(ctx context.Context) {
	s.name = s.names.AllocateUnique()
	s.room = DefaultRoom
	s.sub = s.directory.Join(s.room, s.name)
	defer s.close()

	s.events.UserConnected(s.name)
	s.logger.Info("Session started", "sessionID", s.id, "username", s.name)

	s.sub.Publish(fmt.Sprintf("%s has joined the chat.", s.name))
	if err := s.transport.Send([]byte(helpText)); err != nil {
		return
	}

	ticker := time.NewTicker(s.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-s.transport.Lines():
			if !ok {
				return
			}
			quit, err := s.handleLine(line)
			if quit {
				return
			}
			if err != nil {
				s.logger.Error("Session write failed", "sessionID", s.id, "error", err)
				return
			}
		case msg := <-s.sub.C():
			if err := s.forward(msg); err != nil {
				s.logger.Error("Session write failed", "sessionID", s.id, "error", err)
				return
			}
		case <-ticker.C:
			if err := s.transport.Ping(); err != nil {
				s.logger.Error("Keepalive failed", "sessionID", s.id, "error", err)
				return
			}
		}
	}
}

// handleLine dispatches one inbound line. The first whitespace-delimited
// token selects the command; remaining tokens are re-joined with single
// spaces where the command takes an argument. Anything else is chat.
func (s *Session) handleLine(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	// The room may have been renamed by another member since the last
	// iteration; resync before interpreting the command.
	s.room = s.sub.RoomName()

	arg := strings.Join(fields[1:], " ")
	switch fields[0] {
	case "/join":
		return false, s.joinRoom(arg)
	case "/name":
		return false, s.rename(arg)
	case "/allusers":
		return false, s.transport.Send([]byte("All users: " + formatNames(s.names.Snapshot())))
	case "/users":
		return false, s.transport.Send([]byte("Users in current room: " + formatNames(s.directory.ListMembers(s.room))))
	case "/rooms":
		return false, s.transport.Send([]byte("Current rooms: " + formatRooms(s.directory.ListRooms())))
	case "/renameroom":
		return false, s.renameRoom(arg)
	case "/help":
		return false, s.transport.Send([]byte(helpText))
	case "/quit":
		return true, nil
	default:
		s.sub.Publish(fmt.Sprintf("%s: %s", s.name, line))
		return false, nil
	}
}

func (s *Session) joinRoom(newRoom string) error {
	if newRoom == s.room {
		return s.transport.Send([]byte("You are already in this room."))
	}
	s.sub.Publish(fmt.Sprintf("%s has left %s.", s.name, s.room))
	s.events.UserLeftRoom(s.room, s.name)
	s.sub = s.directory.ChangeRoom(s.room, newRoom, s.name, s.sub)
	s.room = newRoom
	s.sub.Publish(fmt.Sprintf("%s has joined %s.", s.name, s.room))
	s.events.UserJoinedRoom(s.room, s.name)
	return nil
}

func (s *Session) rename(newName string) error {
	if newName == "" {
		return s.transport.Send([]byte("Name cannot be empty."))
	}
	if !s.names.TryRegister(newName) {
		return s.transport.Send([]byte("Sorry, that name is taken."))
	}
	if err := s.directory.RenameUser(s.room, s.name, newName); err != nil {
		// The directory lost track of us; abort the rename and keep the
		// session alive under its old name.
		s.names.Release(newName)
		s.logger.Error("Rename failed", "sessionID", s.id, "room", s.room, "error", err)
		return nil
	}
	oldName := s.name
	s.name = newName
	s.names.Release(oldName)
	s.sub.Publish(fmt.Sprintf("%s is now %s", oldName, newName))
	s.sub.Publish("Current names in room: " + formatNames(s.directory.ListMembers(s.room)))
	s.events.UserRenamed(s.room, oldName, newName)
	return nil
}

func (s *Session) renameRoom(newName string) error {
	if newName == "" {
		return s.transport.Send([]byte("Room name cannot be empty."))
	}
	if s.directory.HasRoom(newName) {
		return s.transport.Send([]byte("Room name already exists."))
	}
	oldName := s.room
	if err := s.directory.RenameRoom(oldName, newName); err != nil {
		if errors.Is(err, ErrRoomExists) {
			// Lost the race against a concurrent rename to the same name.
			return s.transport.Send([]byte("Room name already exists."))
		}
		s.logger.Error("Room rename failed", "sessionID", s.id, "room", oldName, "error", err)
		return nil
	}
	s.room = newName
	s.sub.Publish(fmt.Sprintf("Room %s has been renamed to %s.", oldName, newName))
	s.events.RoomRenamed(oldName, newName)
	return nil
}

// forward delivers one broadcast to the transport as a JSON record, falling
// back to the formatted text form if encoding fails.
func (s *Session) forward(msg domain.ChatMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return s.transport.Send([]byte(msg.FallbackText()))
	}
	return s.transport.Send(payload)
}

// close runs the termination sequence exactly once: best-effort leave
// notice, name release, room departure.
func (s *Session) close() {
	s.cleanup.Do(func() {
		room := s.sub.RoomName()
		s.sub.Publish(fmt.Sprintf("%s has left the chat.", s.name))
		s.names.Release(s.name)
		s.directory.Leave(room, s.name, s.sub)
		s.events.UserDisconnected(s.name, room)
		s.logger.Info("Session ended", "sessionID", s.id, "username", s.name)
	})
}

func formatNames(names []string) string {
	return "[" + strings.Join(names, ", ") + "]"
}

func formatRooms(rooms []domain.RoomInfo) string {
	parts := make([]string, len(rooms))
	for i, r := range rooms {
		parts[i] = fmt.Sprintf("%s (%d)", r.Name, r.Subscribers)
	}
	return strings.Join(parts, ", ")
}
