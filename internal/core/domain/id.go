package domain

import (
	"github.com/google/uuid"
)

// ConnID identifies one live transport session. It is assigned by the
// server at upgrade time and is unique for the connection's lifetime.
type ConnID string

func NewConnID() ConnID {
	return ConnID(uuid.New().String())
}

func (id ConnID) String() string {
	return string(id)
}

// RoomID is a caller-supplied room identifier. It is treated as an opaque
// string and never validated for format.
type RoomID string

func (id RoomID) String() string {
	return string(id)
}

type UserID uuid.UUID

func NewUserID() UserID {
	return UserID(uuid.New())
}

func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(id), nil
}

func (id UserID) String() string {
	return uuid.UUID(id).String()
}
