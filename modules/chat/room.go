package chat

import (
	"sync"
	"sync/atomic"

	domain "github.com/example/chatroom-server/domain/chat"
)

// roomBufferSize bounds each subscriber's inbound queue so a single slow
// reader cannot grow memory without limit.
const roomBufferSize = 32

// Room is one broadcast domain: a set of member names plus one bounded
// queue per live subscriber. The member set and the room's directory key
// are mutated only under the directory lock; the subscriber set has its own
// lock so publishing never contends with directory table operations.
type Room struct {
	mu      sync.RWMutex
	name    string
	members map[string]struct{}
	subs    map[*Subscription]struct{}
	dropped atomic.Uint64
}

func newRoom(name string) *Room {
	return &Room{
		name:    name,
		members: make(map[string]struct{}),
		subs:    make(map[*Subscription]struct{}),
	}
}

func (r *Room) publish(msg domain.ChatMessage) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for sub := range r.subs {
		select {
		case sub.ch <- msg:
		default:
			// Subscriber buffer full: it misses this message and resumes
			// from the next one rather than blocking the publisher.
			r.dropped.Add(1)
		}
	}
}

func (r *Room) subscribe() *Subscription {
	sub := &Subscription{
		room: r,
		ch:   make(chan domain.ChatMessage, roomBufferSize),
	}
	r.mu.Lock()
	r.subs[sub] = struct{}{}
	r.mu.Unlock()
	return sub
}

func (r *Room) unsubscribe(sub *Subscription) {
	r.mu.Lock()
	delete(r.subs, sub)
	r.mu.Unlock()
}

func (r *Room) subscriberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

func (r *Room) currentName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.name
}

func (r *Room) setName(name string) {
	r.mu.Lock()
	r.name = name
	r.mu.Unlock()
}

// Subscription is one session's handle on a room: it publishes to every
// subscriber and receives what others publish. A subscription stays valid
// across room renames; it is invalidated only by Directory.Leave.
type Subscription struct {
	room *Room
	ch   chan domain.ChatMessage
}

// C is the subscriber side of the handle. Messages arrive in publish order.
func (s *Subscription) C() <-chan domain.ChatMessage { return s.ch }

// Publish broadcasts body to every subscriber of the room, including the
// publisher itself, stamping the message at send time.
func (s *Subscription) Publish(body string) {
	s.room.publish(domain.NewChatMessage(body))
}

// RoomName returns the current directory key of the subscribed room, which
// may differ from the name at subscription time after a rename.
func (s *Subscription) RoomName() string {
	return s.room.currentName()
}
