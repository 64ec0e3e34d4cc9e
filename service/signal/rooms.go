package signal

import (
	"sort"
	"sync"

	"PMeet/tools/errs"
)

// RoomTable is the authoritative owner of room membership. Nothing else in
// the process keeps a member list. Every operation is atomic under one lock,
// so an event is fully applied before the next one observes the table; in
// particular a leave's remove/empty-check/delete cannot interleave with a
// concurrent join on the same room.
//
// Invariant: a room present in the table has at least one member. The entry
// is deleted in the same critical section that empties it.
type RoomTable struct {
	mu    sync.Mutex
	rooms map[string]map[string]struct{}
}

func NewRoomTable() *RoomTable {
	return &RoomTable{rooms: make(map[string]map[string]struct{})}
}

// Departure describes one room a disconnecting connection was removed from.
type Departure struct {
	RoomID    string
	Remaining []string // empty means the room was deleted
}

// CreateOrJoin adds connID to roomID, creating the room when absent.
// Re-adding an existing member is a no-op. Returns the full member list.
func (t *RoomTable) CreateOrJoin(roomID, connID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	members, ok := t.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		t.rooms[roomID] = members
	}
	members[connID] = struct{}{}
	return memberList(members, "")
}

// Join adds connID to an existing room and returns the other current
// members. ErrRoomNotFound when the room does not exist; the table is left
// untouched in that case.
func (t *RoomTable) Join(roomID, connID string) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	members, ok := t.rooms[roomID]
	if !ok {
		return nil, errs.ErrRoomNotFound.WithDetail(roomID)
	}
	others := memberList(members, connID)
	members[connID] = struct{}{}
	return others, nil
}

// Leave removes connID from roomID. Absent room or non-member are benign
// no-ops (changed=false). When the removal empties the room, the entry is
// deleted before the lock is released.
func (t *RoomTable) Leave(roomID, connID string) (remaining []string, changed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.leaveLocked(roomID, connID)
}

func (t *RoomTable) leaveLocked(roomID, connID string) ([]string, bool) {
	members, ok := t.rooms[roomID]
	if !ok {
		return nil, false
	}
	if _, in := members[connID]; !in {
		return nil, false
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(t.rooms, roomID)
		return nil, true
	}
	return memberList(members, ""), true
}

// DisconnectAll removes connID from every room it belongs to, in one pass
// under the lock. Idempotent: a second call finds nothing to remove.
func (t *RoomTable) DisconnectAll(connID string) []Departure {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Departure
	for roomID := range t.rooms {
		if remaining, changed := t.leaveLocked(roomID, connID); changed {
			out = append(out, Departure{RoomID: roomID, Remaining: remaining})
		}
	}
	return out
}

// Authorize runs the relay checks for one signaling message, in order: room
// exists, sender is a member, target is present and a member. All three
// under one lock so the answer reflects a single consistent table state.
func (t *RoomTable) Authorize(roomID, senderID, targetID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	members, ok := t.rooms[roomID]
	if !ok {
		return errs.ErrUnknownRoom.WithDetail(roomID)
	}
	if _, in := members[senderID]; !in {
		return errs.ErrUnauthorizedSender.WithDetail(senderID)
	}
	if targetID == "" {
		return errs.ErrInvalidTarget.WithDetail("no target")
	}
	if _, in := members[targetID]; !in {
		return errs.ErrInvalidTarget.WithDetail(targetID)
	}
	return nil
}

func (t *RoomTable) Exists(roomID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.rooms[roomID]
	return ok
}

func (t *RoomTable) IsMember(roomID, connID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	members, ok := t.rooms[roomID]
	if !ok {
		return false
	}
	_, in := members[connID]
	return in
}

// Members returns the member list, nil for an absent room.
func (t *RoomTable) Members(roomID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	members, ok := t.rooms[roomID]
	if !ok {
		return nil
	}
	return memberList(members, "")
}

// Count reports the number of live rooms.
func (t *RoomTable) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rooms)
}

// memberList snapshots a member set, excluding one id. Sorted so replies
// are deterministic.
func memberList(members map[string]struct{}, exclude string) []string {
	out := make([]string, 0, len(members))
	for id := range members {
		if id != exclude {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
