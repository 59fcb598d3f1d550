package ws

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrRoomFull     = errors.New("room is full")
	ErrRoomNotFound = errors.New("room not found")
)

// RoomDirectory maps room identifiers to their current member sets. Rooms
// are created implicitly on first join and removed when the last member
// leaves. Membership mutation is serialized per room: the capacity check
// and the insert happen under one room lock, so two concurrent joiners can
// never both be admitted past capacity. Operations on distinct rooms do
// not contend.
type RoomDirectory struct {
	capacity int

	mu    sync.Mutex
	rooms map[string]*room
}

type room struct {
	mu sync.Mutex
	// closed marks a room that was emptied and removed from the map while
	// another goroutine still held a pointer to it.
	closed bool
	// members maps connID to the member snapshot captured at admission,
	// which repeat joins return unchanged.
	members map[string][]string
}

func NewRoomDirectory(capacity int) *RoomDirectory {
	if capacity < 2 {
		capacity = 2
	}
	return &RoomDirectory{
		capacity: capacity,
		rooms:    make(map[string]*room),
	}
}

func (d *RoomDirectory) Capacity() int {
	return d.capacity
}

// Join admits connID to roomID and returns the members that were already
// present, sorted. A repeat join for the same pair is a no-op that returns
// the original snapshot with rejoined=true; callers must not emit join
// notifications again in that case.
func (d *RoomDirectory) Join(roomID, connID string) (members []string, rejoined bool, err error) {
	for {
		d.mu.Lock()
		r, ok := d.rooms[roomID]
		if !ok {
			r = &room{members: make(map[string][]string)}
			d.rooms[roomID] = r
		}
		d.mu.Unlock()

		r.mu.Lock()
		if r.closed {
			// Lost a race with the last leaver; the map entry is gone.
			r.mu.Unlock()
			continue
		}

		if snapshot, ok := r.members[connID]; ok {
			out := append([]string(nil), snapshot...)
			r.mu.Unlock()
			return out, true, nil
		}

		if len(r.members) >= d.capacity {
			r.mu.Unlock()
			return nil, false, ErrRoomFull
		}

		snapshot := make([]string, 0, len(r.members))
		for id := range r.members {
			snapshot = append(snapshot, id)
		}
		sort.Strings(snapshot)

		r.members[connID] = snapshot
		r.mu.Unlock()

		return append([]string(nil), snapshot...), false, nil
	}
}

// Leave removes connID from roomID and returns the remaining members,
// sorted. Removing the last member removes the room itself. Unknown rooms
// and unknown members are no-ops.
func (d *RoomDirectory) Leave(roomID, connID string) []string {
	d.mu.Lock()
	r, ok := d.rooms[roomID]
	d.mu.Unlock()
	if !ok {
		return nil
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}

	delete(r.members, connID)

	remaining := make([]string, 0, len(r.members))
	for id := range r.members {
		remaining = append(remaining, id)
	}
	sort.Strings(remaining)

	if len(r.members) == 0 {
		r.closed = true
		// Join never waits on a room lock while holding the map lock, so
		// taking it here cannot deadlock.
		d.mu.Lock()
		if d.rooms[roomID] == r {
			delete(d.rooms, roomID)
		}
		d.mu.Unlock()
	}
	r.mu.Unlock()

	return remaining
}

// Members returns the current member set of roomID, sorted.
func (d *RoomDirectory) Members(roomID string) []string {
	d.mu.Lock()
	r, ok := d.rooms[roomID]
	d.mu.Unlock()
	if !ok {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}

	members := make([]string, 0, len(r.members))
	for id := range r.members {
		members = append(members, id)
	}
	sort.Strings(members)

	return members
}

// Contains reports whether connID is currently a member of roomID.
func (d *RoomDirectory) Contains(roomID, connID string) bool {
	d.mu.Lock()
	r, ok := d.rooms[roomID]
	d.mu.Unlock()
	if !ok {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}

	_, in := r.members[connID]
	return in
}

// Rooms returns the number of live rooms.
func (d *RoomDirectory) Rooms() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.rooms)
}
