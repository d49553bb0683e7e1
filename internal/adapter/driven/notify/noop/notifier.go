// Package noop logs call invites instead of dispatching them. Used when
// no webhook is configured.
package noop

import (
	"context"

	"github.com/peerline/peerline/internal/core/domain"
	"github.com/rs/zerolog/log"
)

type Notifier struct{}

func NewNotifier() Notifier {
	return Notifier{}
}

func (Notifier) Notify(ctx context.Context, recipient domain.UserID, invite domain.CallInvite) error {
	log.Info().
		Str("recipient", recipient.String()).
		Str("room_id", invite.RoomID.String()).
		Msg("Call invite (dispatch disabled)")
	return nil
}
