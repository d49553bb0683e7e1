package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/peerline/peerline/internal/core/domain"
	"github.com/peerline/peerline/internal/core/port"
)

// UserRepository keeps users in memory. It backs development setups
// without a database and the test suites.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[domain.UserID]*domain.User
	byEmail map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[domain.UserID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := r.byEmail[key]; ok {
		return port.ErrDuplicateEmail
	}

	stored := *user
	r.byID[user.ID] = &stored
	r.byEmail[key] = &stored
	return nil
}

func (r *UserRepository) ByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, port.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, port.ErrUserNotFound
	}
	out := *user
	return &out, nil
}
