package service

import (
	"context"
	"errors"

	"github.com/peerline/peerline/internal/core/domain"
	"github.com/peerline/peerline/internal/core/port"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AccountService handles registration, login and profile lookup. It is a
// conventional request/response collaborator around the persistent store;
// the signaling coordinator never depends on it beyond token checks.
type AccountService struct {
	users  port.UserRepository
	tokens port.TokenIssuer
}

func NewAccountService(users port.UserRepository, tokens port.TokenIssuer) *AccountService {
	return &AccountService{
		users:  users,
		tokens: tokens,
	}
}

func (s *AccountService) Register(ctx context.Context, name, email, password, avatar string) (*domain.User, error) {
	if password == "" {
		return nil, domain.ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(name, email, string(hash), avatar)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns the user with a fresh bearer
// token. A missing user and a wrong password are indistinguishable to the
// caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, port.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AccountService) Profile(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.users.ByID(ctx, id)
}
