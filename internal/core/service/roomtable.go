package service

import (
	"slices"
	"sync"

	"github.com/peerline/peerline/internal/core/domain"
	"github.com/rs/zerolog/log"
)

// RoomTable maps a room id to its ordered members (insertion order, first
// member is the initiator) and owns all join/leave/capacity logic. Every
// mutation runs under one mutex, so two concurrent joins can never both
// observe a half-full room and overfill it. Room association updates in
// the registry happen inside the same critical section.
//
// A room with zero members never exists in the table: the last leave
// deletes the entry atomically with the removal.
type RoomTable struct {
	mu       sync.Mutex
	rooms    map[domain.RoomID][]domain.ConnID
	registry *ConnectionRegistry
}

func NewRoomTable(registry *ConnectionRegistry) *RoomTable {
	return &RoomTable{
		rooms:    make(map[domain.RoomID][]domain.ConnID),
		registry: registry,
	}
}

// Join adds the connection to the room, creating the room on first join.
// A join for a room already at capacity never evicts an existing member:
// the first two win, later joiners get RoomFull. A duplicate join by a
// current member is a no-op success.
//
// A connection may hold at most one room at a time. Joining while still
// associated with a different room leaves that room first; the result
// carries the departure so remaining members can be notified.
func (t *RoomTable) Join(connID domain.ConnID, roomID domain.RoomID) domain.JoinResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	var departed *domain.Departure
	if prev, ok := t.registry.Room(connID); ok && prev != roomID {
		if remaining, left := t.removeLocked(connID, prev); left {
			departed = &domain.Departure{RoomID: prev, Remaining: remaining}
		}
		t.registry.clearRoom(connID)
	}

	members := t.rooms[roomID]

	if slices.Contains(members, connID) {
		return domain.JoinResult{Status: domain.Joined, First: len(members) == 1, Departed: departed}
	}

	if len(members) >= domain.RoomCapacity {
		return domain.JoinResult{Status: domain.RoomFull, Departed: departed}
	}

	peers := slices.Clone(members)
	t.rooms[roomID] = append(members, connID)
	t.registry.setRoom(connID, roomID)

	log.Debug().
		Str("conn_id", connID.String()).
		Str("room_id", roomID.String()).
		Int("members", len(members)+1).
		Msg("Joined room")

	return domain.JoinResult{
		Status:   domain.Joined,
		First:    len(peers) == 0,
		Peers:    peers,
		Departed: departed,
	}
}

// Leave removes the connection from the room if present, preserving the
// order of the remaining members. The room association is cleared even
// when the connection was not a member, so cleanup is always safe to call.
func (t *RoomTable) Leave(connID domain.ConnID, roomID domain.RoomID) domain.LeaveResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	remaining, left := t.removeLocked(connID, roomID)
	t.registry.clearRoom(connID)

	if !left {
		return domain.LeaveResult{Status: domain.NotInRoom}
	}
	return domain.LeaveResult{Status: domain.Left, Remaining: remaining}
}

// LeaveAny looks up the connection's current room and leaves it. It is the
// disconnect path, where no room id arrives with the event, and it is
// idempotent: a second call finds no association and reports NotInRoom.
func (t *RoomTable) LeaveAny(connID domain.ConnID) (domain.RoomID, domain.LeaveResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	roomID, ok := t.registry.Room(connID)
	if !ok {
		return "", domain.LeaveResult{Status: domain.NotInRoom}
	}

	remaining, left := t.removeLocked(connID, roomID)
	t.registry.clearRoom(connID)

	if !left {
		return roomID, domain.LeaveResult{Status: domain.NotInRoom}
	}
	return roomID, domain.LeaveResult{Status: domain.Left, Remaining: remaining}
}

// MembersExcluding returns the room's members other than the given
// connection. Used to compute broadcast targets.
func (t *RoomTable) MembersExcluding(roomID domain.RoomID, connID domain.ConnID) []domain.ConnID {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []domain.ConnID
	for _, id := range t.rooms[roomID] {
		if id != connID {
			out = append(out, id)
		}
	}
	return out
}

// Members returns the room's member list in insertion order.
func (t *RoomTable) Members(roomID domain.RoomID) []domain.ConnID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.rooms[roomID])
}

// Exists reports whether the room is present in the table.
func (t *RoomTable) Exists(roomID domain.RoomID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.rooms[roomID]
	return ok
}

// removeLocked takes the connection out of the room's member list and
// deletes the room once empty. Caller holds t.mu.
func (t *RoomTable) removeLocked(connID domain.ConnID, roomID domain.RoomID) ([]domain.ConnID, bool) {
	members, ok := t.rooms[roomID]
	if !ok {
		return nil, false
	}

	idx := slices.Index(members, connID)
	if idx < 0 {
		return nil, false
	}

	remaining := slices.Delete(members, idx, idx+1)
	if len(remaining) == 0 {
		delete(t.rooms, roomID)
		log.Debug().Str("room_id", roomID.String()).Msg("Room deleted")
	} else {
		t.rooms[roomID] = remaining
	}

	return slices.Clone(remaining), true
}
