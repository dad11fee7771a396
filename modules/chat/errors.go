package chat

import "errors"

// Directory errors. NotFound conditions are recovered by the session that
// hit them; Conflict is surfaced to the requesting user as a private notice.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrMemberNotFound = errors.New("member not found in room")
	ErrRoomExists     = errors.New("room name already exists")
)
