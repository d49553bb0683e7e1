package domain

// RoomCapacity is the hard member limit per room: one call, two parties.
const RoomCapacity = 2

type JoinStatus int

const (
	Joined JoinStatus = iota
	RoomFull
)

// Departure describes a room the connection was removed from as a side
// effect of another operation (auto-leave on re-join).
type Departure struct {
	RoomID    RoomID
	Remaining []ConnID
}

// JoinResult reports the outcome of a RoomTable join.
type JoinResult struct {
	Status JoinStatus
	// First is true when the join created the room.
	First bool
	// Peers holds the members present before this join, excluding the
	// joiner. Empty on duplicate joins so no repeat notification is sent.
	Peers []ConnID
	// Departed is set when joining auto-left a previous room.
	Departed *Departure
}

type LeaveStatus int

const (
	Left LeaveStatus = iota
	NotInRoom
)

// LeaveResult reports the outcome of a RoomTable leave. Remaining reflects
// membership after the removal.
type LeaveResult struct {
	Status    LeaveStatus
	Remaining []ConnID
}
