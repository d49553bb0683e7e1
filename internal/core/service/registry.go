package service

import (
	"sync"

	"github.com/peerline/peerline/internal/core/domain"
	"github.com/peerline/peerline/internal/core/port"
)

// ConnectionRegistry tracks live connections and, for each, at most one
// associated room. The room association is mutated only by RoomTable,
// inside its critical section, so the two never disagree about membership.
type ConnectionRegistry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]port.Client
	rooms map[domain.ConnID]domain.RoomID
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		conns: make(map[domain.ConnID]port.Client),
		rooms: make(map[domain.ConnID]domain.RoomID),
	}
}

func (r *ConnectionRegistry) Add(c port.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID()] = c
}

// Remove drops the connection and any leftover room association. Safe to
// call for unknown ids.
func (r *ConnectionRegistry) Remove(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
	delete(r.rooms, id)
}

func (r *ConnectionRegistry) Client(id domain.ConnID) (port.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

func (r *ConnectionRegistry) Room(id domain.ConnID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roomID, ok := r.rooms[id]
	return roomID, ok
}

func (r *ConnectionRegistry) setRoom(id domain.ConnID, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[id] = roomID
}

func (r *ConnectionRegistry) clearRoom(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
}

func (r *ConnectionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
