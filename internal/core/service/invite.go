package service

import (
	"context"
	"errors"
	"time"

	"github.com/peerline/peerline/internal/core/domain"
	"github.com/peerline/peerline/internal/core/port"
	"github.com/rs/zerolog/log"
)

const notifyTimeout = 5 * time.Second

// InviteService rings a user who may not hold an open connection, via the
// out-of-band notification dispatcher. Delivery is fire-and-forget: the
// signaling path neither waits for nor depends on the outcome.
type InviteService struct {
	users    port.UserRepository
	notifier port.CallNotifier
}

func NewInviteService(users port.UserRepository, notifier port.CallNotifier) *InviteService {
	return &InviteService{
		users:    users,
		notifier: notifier,
	}
}

func (s *InviteService) Invite(ctx context.Context, caller, callee domain.UserID, roomID domain.RoomID) error {
	callerName := ""
	if user, err := s.users.ByID(ctx, caller); err == nil {
		callerName = user.Name
	} else if !errors.Is(err, port.ErrUserNotFound) {
		return err
	}

	invite := domain.CallInvite{RoomID: roomID, CallerName: callerName}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, callee, invite); err != nil {
			log.Warn().Err(err).
				Str("callee", callee.String()).
				Str("room_id", roomID.String()).
				Msg("Call invite delivery failed")
		}
	}()

	return nil
}
