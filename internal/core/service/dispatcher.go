package service

import (
	"github.com/peerline/peerline/internal/core/domain"
	"github.com/peerline/peerline/internal/core/port"
	"github.com/rs/zerolog/log"
)

// EventDispatcher is the boundary between the transport and the
// coordinator. It validates inbound event shapes, invokes RoomTable or
// SignalingRouter, and turns their outputs into outbound events. A
// malformed event is dropped with a diagnostic log; one misbehaving
// connection never affects other rooms.
type EventDispatcher struct {
	registry *ConnectionRegistry
	rooms    *RoomTable
	router   *SignalingRouter
}

func NewEventDispatcher(registry *ConnectionRegistry, rooms *RoomTable, router *SignalingRouter) *EventDispatcher {
	return &EventDispatcher{
		registry: registry,
		rooms:    rooms,
		router:   router,
	}
}

// Connect registers a new live connection and tells it its assigned id,
// which peers will use to address signals to it.
func (d *EventDispatcher) Connect(c port.Client) {
	d.registry.Add(c)
	d.router.SendTo(c.ID(), domain.Event{Event: domain.EventWelcome, You: c.ID()})
}

// Dispatch routes one inbound event by kind. Unknown kinds and events
// missing required fields are logged and ignored.
func (d *EventDispatcher) Dispatch(connID domain.ConnID, in domain.Inbound) {
	switch in.Event {
	case domain.EventJoinRoom:
		if !requireRoom(connID, in) {
			return
		}
		d.handleJoin(connID, in.RoomID)

	case domain.EventLeaveRoom:
		if !requireRoom(connID, in) {
			return
		}
		d.handleLeave(connID, in.RoomID)

	case domain.EventSignal:
		if in.To == "" {
			dropMalformed(connID, in, "missing to")
			return
		}
		d.router.RouteSignal(domain.SignalEnvelope{From: connID, To: in.To, Payload: in.Data})

	case domain.EventRejectCall:
		if !requireRoom(connID, in) {
			return
		}
		d.router.BroadcastToRoom(in.RoomID, connID, domain.EventCallRejected, nil)

	case domain.EventHangupCall:
		if !requireRoom(connID, in) {
			return
		}
		// peer-left without an id, the client reuses its existing handler.
		d.router.BroadcastToRoom(in.RoomID, connID, domain.EventPeerLeft, nil)

	default:
		dropMalformed(connID, in, "unknown event kind")
	}
}

// Disconnect cleans up after a transport-level close. Idempotent: a
// second call finds no room association and produces no notifications.
func (d *EventDispatcher) Disconnect(connID domain.ConnID) {
	roomID, res := d.rooms.LeaveAny(connID)
	if res.Status == domain.Left {
		log.Info().
			Str("conn_id", connID.String()).
			Str("room_id", roomID.String()).
			Msg("Connection disconnected from room")
		d.router.NotifyPeerLeft(res.Remaining, connID)
	}
	d.registry.Remove(connID)
}

func (d *EventDispatcher) handleJoin(connID domain.ConnID, roomID domain.RoomID) {
	res := d.rooms.Join(connID, roomID)

	// Re-joining under a different room id auto-leaves the old room.
	if res.Departed != nil {
		d.router.NotifyPeerLeft(res.Departed.Remaining, connID)
	}

	if res.Status == domain.RoomFull {
		log.Info().
			Str("conn_id", connID.String()).
			Str("room_id", roomID.String()).
			Msg("Join rejected, room full")
		d.router.SendTo(connID, domain.Event{Event: domain.EventRoomFull, RoomID: roomID})
		return
	}

	d.router.SendTo(connID, domain.Event{Event: domain.EventJoinedRoom, RoomID: roomID})

	for _, peer := range res.Peers {
		d.router.SendTo(peer, domain.Event{Event: domain.EventPeerJoined, RoomID: roomID, Peer: connID})
	}
}

func (d *EventDispatcher) handleLeave(connID domain.ConnID, roomID domain.RoomID) {
	res := d.rooms.Leave(connID, roomID)
	if res.Status != domain.Left {
		return
	}
	log.Info().
		Str("conn_id", connID.String()).
		Str("room_id", roomID.String()).
		Msg("Connection left room")
	d.router.NotifyPeerLeft(res.Remaining, connID)
}

func requireRoom(connID domain.ConnID, in domain.Inbound) bool {
	if in.RoomID == "" {
		dropMalformed(connID, in, "missing roomId")
		return false
	}
	return true
}

func dropMalformed(connID domain.ConnID, in domain.Inbound, reason string) {
	log.Warn().
		Str("conn_id", connID.String()).
		Str("event", string(in.Event)).
		Str("reason", reason).
		Msg("Dropping malformed event")
}
