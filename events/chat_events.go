package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// UserConnectedEvent is emitted when a session is established and a display
// name has been allocated.
type UserConnectedEvent struct {
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// UserDisconnectedEvent is emitted when a session terminates for any reason.
type UserDisconnectedEvent struct {
	Username  string    `json:"username"`
	Room      string    `json:"room"`
	Timestamp time.Time `json:"timestamp"`
}

// UserJoinedRoomEvent is emitted when a user switches into a room.
type UserJoinedRoomEvent struct {
	Room      string    `json:"room"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// UserLeftRoomEvent is emitted when a user switches out of a room.
type UserLeftRoomEvent struct {
	Room      string    `json:"room"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// UserRenamedEvent is emitted when a user successfully changes display name.
type UserRenamedEvent struct {
	Room      string    `json:"room"`
	OldName   string    `json:"old_name"`
	NewName   string    `json:"new_name"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomRenamedEvent is emitted when a room is renamed.
type RoomRenamedEvent struct {
	OldName   string    `json:"old_name"`
	NewName   string    `json:"new_name"`
	Timestamp time.Time `json:"timestamp"`
}

// Event definitions for the chat domain.
var (
	UserConnectedV1 = helper.EventDefinition[UserConnectedEvent](
		"chat",
		"UserConnected",
		"v1",
	)

	UserDisconnectedV1 = helper.EventDefinition[UserDisconnectedEvent](
		"chat",
		"UserDisconnected",
		"v1",
	)

	UserJoinedRoomV1 = helper.EventDefinition[UserJoinedRoomEvent](
		"chat",
		"UserJoinedRoom",
		"v1",
	)

	UserLeftRoomV1 = helper.EventDefinition[UserLeftRoomEvent](
		"chat",
		"UserLeftRoom",
		"v1",
	)

	UserRenamedV1 = helper.EventDefinition[UserRenamedEvent](
		"chat",
		"UserRenamed",
		"v1",
	)

	RoomRenamedV1 = helper.EventDefinition[RoomRenamedEvent](
		"chat",
		"RoomRenamed",
		"v1",
	)
)
