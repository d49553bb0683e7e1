package port

import (
	"context"

	"github.com/peerline/peerline/internal/core/domain"
)

// CallNotifier attempts best-effort out-of-band delivery of a call invite
// (for example to an offline device). The signaling path never depends on
// it succeeding and never blocks on it.
type CallNotifier interface {
	Notify(ctx context.Context, recipient domain.UserID, invite domain.CallInvite) error
}
