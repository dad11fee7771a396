package chat

// EventSink receives directory lifecycle notifications from sessions. The
// chat module forwards them onto the event bus; tests use a no-op sink.
type EventSink interface {
	UserConnected(username string)
	UserDisconnected(username, room string)
	UserJoinedRoom(room, username string)
	UserLeftRoom(room, username string)
	UserRenamed(room, oldName, newName string)
	RoomRenamed(oldName, newName string)
}

// nopSink discards every notification.
type nopSink struct{}

func (nopSink) UserConnected(string)               {}
func (nopSink) UserDisconnected(string, string)    {}
func (nopSink) UserJoinedRoom(string, string)      {}
func (nopSink) UserLeftRoom(string, string)        {}
func (nopSink) UserRenamed(string, string, string) {}
func (nopSink) RoomRenamed(string, string)         {}
