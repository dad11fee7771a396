package chat

import (
	"fmt"
	"time"
)

// ChatMessage is the record broadcast to every subscriber of a room. The
// JSON field names are a wire contract; downstream tooling parses them.
type ChatMessage struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"` // milliseconds since epoch
}

// NewChatMessage builds a message stamped with the current time.
func NewChatMessage(body string) ChatMessage {
	return ChatMessage{
		Message:   body,
		Timestamp: time.Now().UnixMilli(),
	}
}

// FallbackText renders the message in the plain-text form used when a
// structured encoding cannot be produced:
//
//	[YYYY-MM-DD HH:MM:SS.mmm UTC] <body>
func (m ChatMessage) FallbackText() string {
	ts := time.UnixMilli(m.Timestamp).UTC()
	return fmt.Sprintf("[%s UTC] %s", ts.Format("2006-01-02 15:04:05.000"), m.Message)
}

// RoomInfo describes one room in a directory listing.
type RoomInfo struct {
	Name        string `json:"name"`
	Subscribers int    `json:"subscribers"`
}
