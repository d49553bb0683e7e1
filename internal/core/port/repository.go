package port

import (
	"context"
	"errors"

	"github.com/peerline/peerline/internal/core/domain"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	ByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	ByEmail(ctx context.Context, email string) (*domain.User, error)
}
