package chat

import (
	"sort"
	"sync"

	domain "github.com/example/chatroom-server/domain/chat"
)

// DefaultRoom is the room every session lands in on connect. Like any other
// room it is created lazily on first join, never pre-created.
const DefaultRoom = "main"

// Directory is the process-wide table of live rooms. Table mutations run
// under one RWMutex; a room whose last subscriber leaves is removed before
// the lock is released, so no observer ever sees an empty room.
type Directory struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{rooms: make(map[string]*Room)}
}

// Join inserts user into room, creating the room on first join, and returns
// a live subscription on its broadcast channel.
func (d *Directory) Join(room, user string) *Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.rooms[room]
	if !ok {
		r = newRoom(room)
		d.rooms[room] = r
	}
	r.members[user] = struct{}{}
	return r.subscribe()
}

// Leave removes user and its subscription from room, deleting the room
// entry when the last subscription is gone. If the room was renamed since
// the caller last saw it, the subscription handle locates it. Leaving a
// room the user already left, or one that no longer exists, is a no-op.
func (d *Directory) Leave(room, user string, sub *Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.rooms[room]
	if sub != nil && (!ok || r != sub.room) {
		name := sub.room.currentName()
		if relocated, found := d.rooms[name]; found && relocated == sub.room {
			r, ok = relocated, true
			room = name
		}
	}
	if !ok {
		return
	}
	delete(r.members, user)
	if sub != nil {
		r.unsubscribe(sub)
	}
	if r.subscriberCount() == 0 {
		delete(d.rooms, room)
	}
}

// ChangeRoom moves user from oldRoom to newRoom and returns the new
// subscription. The two steps are individually atomic; between them the
// user is briefly a member of neither room, which matches broadcast
// semantics.
func (d *Directory) ChangeRoom(oldRoom, newRoom, user string, sub *Subscription) *Subscription {
	d.Leave(oldRoom, user, sub)
	return d.Join(newRoom, user)
}

// RenameUser swaps oldName for newName in room's member set.
func (d *Directory) RenameUser(room, oldName, newName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.rooms[room]
	if !ok {
		return ErrRoomNotFound
	}
	if _, member := r.members[oldName]; !member {
		return ErrMemberNotFound
	}
	delete(r.members, oldName)
	r.members[newName] = struct{}{}
	return nil
}

// RenameRoom relocates the room entry from oldName to newName, preserving
// its channel and members untouched. It refuses to overwrite an existing
// room even when the caller already checked.
func (d *Directory) RenameRoom(oldName, newName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.rooms[oldName]
	if !ok {
		return ErrRoomNotFound
	}
	if _, taken := d.rooms[newName]; taken {
		return ErrRoomExists
	}
	delete(d.rooms, oldName)
	d.rooms[newName] = r
	r.setName(newName)
	return nil
}

// HasRoom reports whether name is currently in the directory.
func (d *Directory) HasRoom(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[name]
	return ok
}

// ListMembers returns the sorted member names of room. A room that vanished
// since the caller last saw it yields an empty result.
func (d *Directory) ListMembers(room string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.rooms[room]
	if !ok {
		return []string{}
	}
	members := make([]string, 0, len(r.members))
	for name := range r.members {
		members = append(members, name)
	}
	sort.Strings(members)
	return members
}

// ListRooms returns every room with its live subscriber count, sorted by
// subscriber count descending, ties broken by room name ascending.
func (d *Directory) ListRooms() []domain.RoomInfo {
	d.mu.RLock()
	rooms := make([]domain.RoomInfo, 0, len(d.rooms))
	for name, r := range d.rooms {
		rooms = append(rooms, domain.RoomInfo{Name: name, Subscribers: r.subscriberCount()})
	}
	d.mu.RUnlock()

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Subscribers != rooms[j].Subscribers {
			return rooms[i].Subscribers > rooms[j].Subscribers
		}
		return rooms[i].Name < rooms[j].Name
	})
	return rooms
}

// DroppedMessages is the number of broadcasts discarded because a
// subscriber's buffer was full, summed over live rooms.
func (d *Directory) DroppedMessages() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var total uint64
	for _, r := range d.rooms {
		total += r.dropped.Load()
	}
	return total
}
