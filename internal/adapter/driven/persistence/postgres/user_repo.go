package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peerline/peerline/internal/core/domain"
	"github.com/peerline/peerline/internal/core/port"
)

// uniqueViolation is the Postgres error code raised by the users_email_key
// constraint.
const uniqueViolation = "23505"

// UserRepository implements port.UserRepository over the users table.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, avatar, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID.String(), user.Name, user.Email, user.PasswordHash, user.Avatar, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return port.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) ByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, avatar, created_at
		 FROM users WHERE id = $1`,
		id.String(),
	))
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, avatar, created_at
		 FROM users WHERE email = $1`,
		email,
	))
}

func (r *UserRepository) scanOne(row pgx.Row) (*domain.User, error) {
	var (
		user  domain.User
		rawID string
	)
	err := row.Scan(&rawID, &user.Name, &user.Email, &user.PasswordHash, &user.Avatar, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, port.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	user.ID, err = domain.ParseUserID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	return &user, nil
}
