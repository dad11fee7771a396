package chat

import (
	"errors"
	"reflect"
	"testing"

	domain "github.com/example/chatroom-server/domain/chat"
)

func TestDirectory_Join_CreatesRoomLazily(t *testing.T) {
	d := NewDirectory()

	if d.HasRoom("main") {
		t.Fatal("fresh directory should have no rooms")
	}

	sub := d.Join("main", "alice")
	if sub == nil {
		t.Fatal("Join returned nil subscription")
	}
	if !d.HasRoom("main") {
		t.Error("room 'main' not created on first join")
	}
	if got := d.ListMembers("main"); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Errorf("ListMembers = %v, want [alice]", got)
	}
}

func TestDirectory_Leave_DeletesEmptyRoom(t *testing.T) {
	d := NewDirectory()
	sub := d.Join("main", "alice")

	d.Leave("main", "alice", sub)

	if d.HasRoom("main") {
		t.Error("room should be deleted when its last subscriber leaves")
	}
}

func TestDirectory_Leave_KeepsRoomWithRemainingSubscribers(t *testing.T) {
	d := NewDirectory()
	subA := d.Join("main", "alice")
	d.Join("main", "bob")

	d.Leave("main", "alice", subA)

	if !d.HasRoom("main") {
		t.Fatal("room deleted while bob is still subscribed")
	}
	if got := d.ListMembers("main"); !reflect.DeepEqual(got, []string{"bob"}) {
		t.Errorf("ListMembers = %v, want [bob]", got)
	}
}

func TestDirectory_Leave_Idempotent(t *testing.T) {
	d := NewDirectory()
	sub := d.Join("main", "alice")

	d.Leave("main", "alice", sub)
	d.Leave("main", "alice", sub)
	d.Leave("ghost-room", "nobody", nil)
}

func TestDirectory_Leave_FindsRenamedRoom(t *testing.T) {
	d := NewDirectory()
	sub := d.Join("main", "alice")

	// Another member renames the room; alice still holds the old name.
	if err := d.RenameRoom("main", "lounge"); err != nil {
		t.Fatalf("RenameRoom() error = %v", err)
	}

	d.Leave("main", "alice", sub)

	if d.HasRoom("lounge") {
		t.Error("renamed room should be deleted once its last subscriber leaves")
	}
}

func TestDirectory_ChangeRoom(t *testing.T) {
	d := NewDirectory()
	sub := d.Join("main", "alice")

	newSub := d.ChangeRoom("main", "games", "alice", sub)

	if newSub == nil {
		t.Fatal("ChangeRoom returned nil subscription")
	}
	if d.HasRoom("main") {
		t.Error("old room should be deleted when its last member moves out")
	}
	if got := d.ListMembers("games"); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Errorf("ListMembers('games') = %v, want [alice]", got)
	}
}

func TestDirectory_RenameUser(t *testing.T) {
	d := NewDirectory()
	d.Join("main", "alice")

	if err := d.RenameUser("main", "alice", "alicia"); err != nil {
		t.Fatalf("RenameUser() error = %v", err)
	}
	if got := d.ListMembers("main"); !reflect.DeepEqual(got, []string{"alicia"}) {
		t.Errorf("ListMembers = %v, want [alicia]", got)
	}

	if err := d.RenameUser("ghost", "a", "b"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("RenameUser(missing room) error = %v, want ErrRoomNotFound", err)
	}
	if err := d.RenameUser("main", "ghost", "b"); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("RenameUser(missing member) error = %v, want ErrMemberNotFound", err)
	}
}

func TestDirectory_RenameRoom(t *testing.T) {
	d := NewDirectory()
	sub := d.Join("main", "alice")

	if err := d.RenameRoom("main", "lounge"); err != nil {
		t.Fatalf("RenameRoom() error = %v", err)
	}
	if d.HasRoom("main") {
		t.Error("old room name still present after rename")
	}
	if !d.HasRoom("lounge") {
		t.Error("new room name absent after rename")
	}
	if got := sub.RoomName(); got != "lounge" {
		t.Errorf("sub.RoomName() = %q, want 'lounge'", got)
	}
	// Members and subscription survive the rename.
	if got := d.ListMembers("lounge"); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Errorf("ListMembers('lounge') = %v, want [alice]", got)
	}
}

func TestDirectory_RenameRoom_Errors(t *testing.T) {
	d := NewDirectory()
	d.Join("main", "alice")
	d.Join("games", "bob")

	if err := d.RenameRoom("ghost", "x"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("RenameRoom(missing) error = %v, want ErrRoomNotFound", err)
	}
	if err := d.RenameRoom("main", "games"); !errors.Is(err, ErrRoomExists) {
		t.Errorf("RenameRoom(taken) error = %v, want ErrRoomExists", err)
	}
}

func TestDirectory_ListMembers_Sorted(t *testing.T) {
	d := NewDirectory()
	d.Join("main", "charlie")
	d.Join("main", "alice")
	d.Join("main", "bob")

	got := d.ListMembers("main")
	want := []string{"alice", "bob", "charlie"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListMembers = %v, want %v", got, want)
	}
}

func TestDirectory_ListMembers_MissingRoom(t *testing.T) {
	d := NewDirectory()

	got := d.ListMembers("ghost")
	if got == nil || len(got) != 0 {
		t.Errorf("ListMembers(missing) = %v, want empty non-nil slice", got)
	}
}

func TestDirectory_ListRooms_Ordering(t *testing.T) {
	d := NewDirectory()
	// b: 2 subscribers, a: 2 subscribers, c: 1 subscriber.
	d.Join("b", "u1")
	d.Join("b", "u2")
	d.Join("a", "u3")
	d.Join("a", "u4")
	d.Join("c", "u5")

	got := d.ListRooms()
	want := []domain.RoomInfo{
		{Name: "a", Subscribers: 2},
		{Name: "b", Subscribers: 2},
		{Name: "c", Subscribers: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListRooms = %v, want %v", got, want)
	}
}

func TestSubscription_PublishFanOut(t *testing.T) {
	d := NewDirectory()
	subA := d.Join("main", "alice")
	subB := d.Join("main", "bob")

	subA.Publish("alice: hi")

	for _, sub := range []*Subscription{subA, subB} {
		select {
		case msg := <-sub.C():
			if msg.Message != "alice: hi" {
				t.Errorf("received %q, want 'alice: hi'", msg.Message)
			}
		default:
			t.Error("subscriber did not receive the broadcast")
		}
	}
}

func TestSubscription_PublishOrder(t *testing.T) {
	d := NewDirectory()
	subA := d.Join("main", "alice")
	subB := d.Join("main", "bob")

	subA.Publish("one")
	subA.Publish("two")
	subA.Publish("three")

	want := []string{"one", "two", "three"}
	for i, expected := range want {
		msg := <-subB.C()
		if msg.Message != expected {
			t.Errorf("message %d = %q, want %q", i, msg.Message, expected)
		}
	}
}

func TestSubscription_SlowReaderDropsNotBlocks(t *testing.T) {
	d := NewDirectory()
	subA := d.Join("main", "alice")
	d.Join("main", "bob")

	// Overflow bob's buffer; publishes must complete without blocking.
	for i := 0; i < roomBufferSize+5; i++ {
		subA.Publish("flood")
	}

	if got := d.DroppedMessages(); got != 10 {
		// 5 overflows on each of the two full buffers.
		t.Errorf("DroppedMessages() = %d, want 10", got)
	}
}
