package port

import "github.com/peerline/peerline/internal/core/domain"

// Client is one live transport session as seen by the coordinator. Send
// must not block the caller; implementations queue and deliver from their
// own writer.
type Client interface {
	ID() domain.ConnID
	Send(ev domain.Event) error
	Close() error
}
