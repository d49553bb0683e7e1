package service

import (
	"encoding/json"

	"github.com/peerline/peerline/internal/core/domain"
	"github.com/rs/zerolog/log"
)

// SignalingRouter delivers opaque payloads to addressed peers and
// broadcasts lifecycle events to room members. All delivery is
// best-effort: an unknown target or a failed send is logged and dropped,
// never surfaced to the sender.
type SignalingRouter struct {
	registry *ConnectionRegistry
	rooms    *RoomTable
}

func NewSignalingRouter(registry *ConnectionRegistry, rooms *RoomTable) *SignalingRouter {
	return &SignalingRouter{
		registry: registry,
		rooms:    rooms,
	}
}

// RouteSignal delivers the envelope's payload to the connection it names,
// tagged with the sender. The payload is forwarded without rewriting.
func (r *SignalingRouter) RouteSignal(env domain.SignalEnvelope) {
	target, ok := r.registry.Client(env.To)
	if !ok {
		log.Debug().
			Str("from", env.From.String()).
			Str("to", env.To.String()).
			Msg("Signal target not connected, dropping")
		return
	}

	r.SendTo(target.ID(), domain.Event{
		Event: domain.EventSignal,
		From:  env.From,
		Data:  env.Payload,
	})
}

// BroadcastToRoom delivers the event to every current member of the room
// other than the excluded connection. No-op if the room has no other
// members.
func (r *SignalingRouter) BroadcastToRoom(roomID domain.RoomID, excluding domain.ConnID, kind domain.EventKind, data json.RawMessage) {
	ev := domain.Event{Event: kind, RoomID: roomID, Data: data}
	for _, id := range r.rooms.MembersExcluding(roomID, excluding) {
		r.SendTo(id, ev)
	}
}

// NotifyRoomEnded tells the remaining members of a room that the given
// connection has left. Nothing happens when the room is already gone.
func (r *SignalingRouter) NotifyRoomEnded(roomID domain.RoomID, leaving domain.ConnID) {
	r.NotifyPeerLeft(r.rooms.MembersExcluding(roomID, leaving), leaving)
}

// NotifyPeerLeft sends peer-left carrying the departed connection's id to
// each target.
func (r *SignalingRouter) NotifyPeerLeft(targets []domain.ConnID, leaving domain.ConnID) {
	ev := domain.Event{Event: domain.EventPeerLeft, Peer: leaving}
	for _, id := range targets {
		r.SendTo(id, ev)
	}
}

// SendTo delivers one event to one connection, best-effort.
func (r *SignalingRouter) SendTo(id domain.ConnID, ev domain.Event) {
	client, ok := r.registry.Client(id)
	if !ok {
		return
	}
	if err := client.Send(ev); err != nil {
		log.Warn().Err(err).
			Str("conn_id", id.String()).
			Str("event", string(ev.Event)).
			Msg("Failed to deliver event")
	}
}
