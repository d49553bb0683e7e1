package domain

import (
	"errors"
	"net/mail"
	"time"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidEmail  = errors.New("invalid email address")
)

type User struct {
	ID           UserID
	Name         string
	Email        string
	PasswordHash string
	Avatar       string
	CreatedAt    time.Time
}

// NewUser validates the registration fields and builds a user. The
// password hash is produced by the account service, not here.
func NewUser(name, email, passwordHash, avatar string) (*User, error) {
	if name == "" || email == "" || passwordHash == "" {
		return nil, ErrMissingFields
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	return &User{
		ID:           NewUserID(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Avatar:       avatar,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
