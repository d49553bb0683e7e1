package domain

import "encoding/json"

// EventKind names one inbound or outbound signaling event. The wire names
// are part of the client protocol and must not change.
type EventKind string

// Inbound events.
const (
	EventJoinRoom   EventKind = "join-room"
	EventLeaveRoom  EventKind = "leave-room"
	EventSignal     EventKind = "signal"
	EventRejectCall EventKind = "reject-call"
	EventHangupCall EventKind = "hangup-call"
)

// Outbound events.
const (
	EventWelcome      EventKind = "welcome"
	EventJoinedRoom   EventKind = "joined-room"
	EventRoomFull     EventKind = "room-full"
	EventPeerJoined   EventKind = "peer-joined"
	EventPeerLeft     EventKind = "peer-left"
	EventCallRejected EventKind = "call-rejected"
)

// Inbound is one decoded client event. Which fields are required depends
// on the kind; the dispatcher validates and drops incomplete events.
type Inbound struct {
	Event  EventKind       `json:"event"`
	RoomID RoomID          `json:"roomId,omitempty"`
	To     ConnID          `json:"to,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Event is one outbound notification to a single connection.
type Event struct {
	Event  EventKind       `json:"event"`
	RoomID RoomID          `json:"roomId,omitempty"`
	Peer   ConnID          `json:"peer,omitempty"`
	From   ConnID          `json:"from,omitempty"`
	You    ConnID          `json:"you,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// SignalEnvelope is one routed negotiation payload. The payload is never
// parsed or transformed; it exists only for the duration of one routing
// call.
type SignalEnvelope struct {
	From    ConnID
	To      ConnID
	Payload json.RawMessage
}
