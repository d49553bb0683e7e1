package port

import "github.com/peerline/peerline/internal/core/domain"

// TokenIssuer mints a bearer token for an authenticated user.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenVerifier checks a bearer token and returns the subject user id.
type TokenVerifier interface {
	Verify(token string) (domain.UserID, error)
}
